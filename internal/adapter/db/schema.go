package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = map[string][]string{
	DriverMySQL: {
		`CREATE TABLE IF NOT EXISTS tasks (
  id          VARCHAR(36)  NOT NULL PRIMARY KEY,
  owner_id    VARCHAR(128) NOT NULL,
  title       VARCHAR(255) NOT NULL,
  description TEXT         NOT NULL,
  priority    VARCHAR(16)  NOT NULL,
  status      VARCHAR(16)  NOT NULL,
  due_date    DATE         NULL,
  created_at  DATETIME(6)  NOT NULL,
  updated_at  DATETIME(6)  NOT NULL,
  INDEX idx_tasks_owner_created (owner_id, created_at)
)`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS tasks (
  id          VARCHAR(36)  NOT NULL PRIMARY KEY,
  owner_id    VARCHAR(128) NOT NULL,
  title       VARCHAR(255) NOT NULL,
  description TEXT         NOT NULL,
  priority    VARCHAR(16)  NOT NULL,
  status      VARCHAR(16)  NOT NULL,
  due_date    DATE         NULL,
  created_at  TIMESTAMP    NOT NULL,
  updated_at  TIMESTAMP    NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_created ON tasks (owner_id, created_at)`,
	},
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS tasks (
  id          TEXT      NOT NULL PRIMARY KEY,
  owner_id    TEXT      NOT NULL,
  title       TEXT      NOT NULL,
  description TEXT      NOT NULL,
  priority    TEXT      NOT NULL,
  status      TEXT      NOT NULL,
  due_date    DATE      NULL,
  created_at  TIMESTAMP NOT NULL,
  updated_at  TIMESTAMP NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_owner_created ON tasks (owner_id, created_at)`,
	},
}

// Migrate creates the tasks table for the connection's driver.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	statements, ok := schema[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate tasks: %w", err)
		}
	}
	return nil
}
