// Package database holds the accounts store: the bun DB constructor and the
// persisted row model.
package database

import (
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// Connection pool sizing for the accounts store. Every request touches at
// most a couple of rows, so a small pool is enough.
const (
	maxOpenConns = 25
	maxIdleConns = 5
)

// NewBunDB wraps an open Postgres connection in a Bun DB with the pool
// settings applied.
func NewBunDB(sqlDB *sql.DB) *bun.DB {
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)

	return bun.NewDB(sqlDB, pgdialect.New())
}
