package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var PostgresDB *sql.DB

// ConnectPostgres connects to PostgreSQL and creates the tables the
// companion needs.
func ConnectPostgres(postgresURI string, logger *zap.Logger) error {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	PostgresDB = db
	logger.Info("connected to postgres")

	return InitPostgresTables(ctx, logger)
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, logger *zap.Logger) error {
	queries := []string{
		// Durable one-time flags, daily caches and the user snapshot
		`CREATE TABLE IF NOT EXISTS local_flags (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_local_flags_updated_at ON local_flags(updated_at)`,
	}

	for _, query := range queries {
		if _, err := PostgresDB.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	logger.Info("postgres tables initialized")
	return nil
}

// DisconnectPostgres closes the PostgreSQL connection
func DisconnectPostgres() error {
	if PostgresDB != nil {
		return PostgresDB.Close()
	}
	return nil
}
