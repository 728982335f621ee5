package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"studentvoice/internal/config"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
)

// MaintenanceDSN points at the server's "postgres" database so the target
// database can be created before GORM connects to it.
func MaintenanceDSN(cfg *config.Config) string {
	sslMode := cfg.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     cfg.DBHost + ":" + cfg.DBPort,
		Path:     "/postgres",
		RawQuery: "sslmode=" + url.QueryEscape(sslMode),
	}
	return u.String()
}

// EnsureDatabase creates the configured Postgres database when it is missing.
// It is a no-op for SQLite.
func EnsureDatabase(ctx context.Context, cfg *config.Config) (created bool, err error) {
	if cfg.DBDriver == "sqlite" {
		return false, nil
	}

	conn, err := sql.Open("pgx", MaintenanceDSN(cfg))
	if err != nil {
		return false, fmt.Errorf("open maintenance connection: %w", err)
	}
	defer conn.Close()

	var exists bool
	if err := conn.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("check database: %w", err)
	}
	if exists {
		return false, nil
	}

	stmt := "CREATE DATABASE " + pgx.Identifier{cfg.DBName}.Sanitize()
	if _, err := conn.ExecContext(ctx, stmt); err != nil {
		return false, fmt.Errorf("create database %s: %w", cfg.DBName, err)
	}
	return true, nil
}
