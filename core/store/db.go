package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"itsm-desk/config"
	"itsm-desk/core/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const defaultSQLiteDSN = ":memory:"

// OpenDB opens the configured SQL backend. The memory driver needs no
// database and yields a nil handle.
func OpenDB(ctx context.Context, cfg config.StorageConfig, logger *utils.Logger) (*sql.DB, error) {
	driver := cfg.EffectiveDriver()
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case config.DriverMemory:
		return nil, nil
	case config.DriverSQLite:
		dsn := strings.TrimSpace(cfg.URL)
		if dsn == "" {
			dsn = defaultSQLiteDSN
		}
		db, err = sql.Open("sqlite", dsn)
		if err == nil {
			// one connection keeps :memory: databases coherent and serialises writers
			db.SetMaxOpenConns(1)
		}
	case config.DriverPostgres:
		db, err = sql.Open("pgx", cfg.URL)
		if err == nil {
			db.SetMaxOpenConns(10)
			db.SetConnMaxIdleTime(5 * time.Minute)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if logger != nil {
		logger.Printf("storage driver=%s opened", driver)
	}
	return db, nil
}
