package pg

import "time"

type Config struct {
	ConnectionString string        `env:"PG_CONN_URL,required"`               // ConnectionString is the connection string to the database.
	DialTimeout      time.Duration `env:"PG_DIAL_TIMEOUT" envDefault:"10s"`   // DialTimeout bounds connection establishment per store call.
	QueryTimeout     time.Duration `env:"PG_QUERY_TIMEOUT" envDefault:"15s"`  // QueryTimeout bounds statement execution per store call.

	MigrationsTable string `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"` // MigrationsTable is the name of the table used to store the migration version.
}
