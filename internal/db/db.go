// Package db provides the database connection used by mcpdeck to persist
// local setup state.
package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultSQLitePath is the sqlite database file created in the current
// directory when no DSN is supplied.
const DefaultSQLitePath = "mcpdeck.db"

// NewDBConnection connects to the database identified by dsn.
// An empty dsn falls back to a local sqlite file. A postgres:// or
// postgresql:// DSN selects the postgres driver; anything else is treated
// as a sqlite file path.
func NewDBConnection(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultSQLitePath
	}

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var (
		conn *gorm.DB
		err  error
	)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		conn, err = gorm.Open(sqlite.Open(dsn), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return conn, nil
}
