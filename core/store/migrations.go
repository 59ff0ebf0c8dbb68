package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"itsm-desk/core/utils"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type gooseLogger struct {
	logger *utils.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Printf("MIGRATE "+format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatalf("MIGRATE "+format, v...)
}

func ApplyMigrations(ctx context.Context, db *sql.DB, driver string, logger *utils.Logger) error {
	if db == nil {
		return nil
	}
	dialect := "sqlite3"
	if driver == "postgres" {
		dialect = "postgres"
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{logger: logger})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
