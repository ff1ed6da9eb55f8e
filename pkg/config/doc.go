// Package config loads typed configuration structs from environment
// variables using caarlos0/env, with optional .env bootstrap via godotenv.
// Loaded values are cached per type for the process lifetime.
package config
