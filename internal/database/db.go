package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/college360hub/hub-booking/internal/config"
)

// DSN builds the driver specific connection string for cfg.  A non-empty
// cfg.URL wins; for mysql it is forced to parse times in UTC, since rows are
// scanned into time.Time.
func DSN(cfg config.DBConfig) (string, error) {
	if cfg.URL != "" {
		if cfg.Driver != config.DriverMySQL {
			return cfg.URL, nil
		}
		mc, err := mysql.ParseDSN(cfg.URL)
		if err != nil {
			return "", fmt.Errorf("parse mysql DATABASE_URL: %w", err)
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	}
	switch cfg.Driver {
	case config.DriverMySQL:
		auth := cfg.User
		if cfg.Pass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
		}
		port := cfg.Port
		if port == "" {
			port = "3306"
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.Host, port, cfg.Name), nil
	case config.DriverPostgres:
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Pass),
			Host:     cfg.Host + ":" + port,
			Path:     "/" + cfg.Name,
			RawQuery: url.Values{"sslmode": []string{cfg.SSLMode}}.Encode(),
		}
		return u.String(), nil
	case config.DriverSQLite:
		// busy timeout lets concurrent readers wait for the single writer
		return fmt.Sprintf("file:%s?_busy_timeout=5000", cfg.SQLitePath), nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// Open connects to the configured backend and verifies the connection.
func Open(cfg config.DBConfig) (*sql.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	if cfg.Driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, nil
}
