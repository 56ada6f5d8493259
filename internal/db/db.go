package db

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/lib/pq"
)

//go:embed migrations.sql
var migrationSQL string

// Open connects to Postgres and verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return conn, nil
}

// Migrate creates the products and carts tables if they do not exist.
func Migrate(conn *sql.DB) error {
	if _, err := conn.Exec(migrationSQL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
