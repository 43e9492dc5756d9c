// internal/db/db.go
package db

import (
    "database/sql"
    "fmt"

    _ "github.com/lib/pq"
    "github.com/sirupsen/logrus"

    "github.com/unclebandit/socialpulse-backend/internal/config"
)

// Connect opens and pings a Postgres connection.
func Connect(cfg config.DatabaseConfig, log *logrus.Logger) (*sql.DB, error) {
    conn, err := sql.Open("postgres", cfg.DSN())
    if err != nil {
        return nil, fmt.Errorf("opening database: %w", err)
    }

    if err := conn.Ping(); err != nil {
        conn.Close()
        return nil, fmt.Errorf("pinging database: %w", err)
    }

    log.WithFields(logrus.Fields{
        "host": cfg.Host,
        "name": cfg.Name,
    }).Info("connected to database")

    return conn, nil
}
