package db

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"todotracker/internal/config"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	driver, dsn, err := dataSource(conf)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One connection keeps ":memory:" databases and write locking sane.
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

func dataSource(conf *config.Config) (string, string, error) {
	switch conf.StoreDriver {
	case DriverMySQL:
		params := conf.DbParams
		if params == "" {
			params = "parseTime=true&multiStatements=true"
		}
		return DriverMySQL, fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?%s",
			conf.DbUser,
			conf.DbPassword,
			conf.DbHost,
			conf.DbPort,
			conf.DbName,
			params,
		), nil
	case DriverPostgres:
		return DriverPostgres, conf.PostgresDSN, nil
	case DriverSQLite, "sqlite":
		return DriverSQLite, conf.SQLitePath, nil
	}
	return "", "", fmt.Errorf("unsupported sql driver %q", conf.StoreDriver)
}
