package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Open establishes a single short-lived PostgreSQL connection. Callers own
// the connection and must Close it when the operation finishes; there is no
// pooling, each store call pays full connection setup. Dial time is bounded
// by cfg.DialTimeout.
func Open(ctx context.Context, cfg Config) (*pgx.Conn, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnectionString
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	conn, err := pgx.Connect(dialCtx, cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}
	return conn, nil
}

// Healthcheck returns a closure that validates database connectivity for
// health endpoints by opening and closing one connection.
func Healthcheck(cfg Config) func(context.Context) error {
	return func(ctx context.Context) error {
		conn, err := Open(ctx, cfg)
		if err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		defer func() { _ = conn.Close(ctx) }()

		if err := conn.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
