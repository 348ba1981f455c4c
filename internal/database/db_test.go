package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/college360hub/hub-booking/internal/config"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DBConfig
		want string
	}{
		{
			name: "explicit url wins",
			cfg:  config.DBConfig{Driver: config.DriverPostgres, URL: "postgres://u@h/db", User: "ignored"},
			want: "postgres://u@h/db",
		},
		{
			name: "mysql with password and default port",
			cfg:  config.DBConfig{Driver: config.DriverMySQL, User: "hub", Pass: "secret", Host: "db", Name: "hub"},
			want: "hub:secret@tcp(db:3306)/hub?charset=utf8mb4&parseTime=true&loc=UTC",
		},
		{
			name: "mysql without password",
			cfg:  config.DBConfig{Driver: config.DriverMySQL, User: "hub", Host: "db", Port: "3307", Name: "hub"},
			want: "hub@tcp(db:3307)/hub?charset=utf8mb4&parseTime=true&loc=UTC",
		},
		{
			name: "postgres",
			cfg:  config.DBConfig{Driver: config.DriverPostgres, User: "postgres", Pass: "pw", Host: "localhost", Name: "360hub_local", SSLMode: "disable"},
			want: "postgres://postgres:pw@localhost:5432/360hub_local?sslmode=disable",
		},
		{
			name: "sqlite",
			cfg:  config.DBConfig{Driver: config.DriverSQLite, SQLitePath: "/tmp/hub.db"},
			want: "file:/tmp/hub.db?_busy_timeout=5000",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DSN(tt.cfg)
			if err != nil {
				t.Fatalf("DSN() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDSNUnsupportedDriver(t *testing.T) {
	if _, err := DSN(config.DBConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrateSQLiteUpDown(t *testing.T) {
	cfg := config.DBConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "hub.db")}

	if err := Migrate(cfg, Up, nil); err != nil {
		t.Fatalf("Migrate(up) error = %v", err)
	}
	// A second run on a current schema is a no-op.
	if err := Migrate(cfg, Up, nil); err != nil {
		t.Fatalf("Migrate(up) second run error = %v", err)
	}

	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for _, table := range []string{"bookings", "donations"} {
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n); err != nil {
			t.Fatalf("lookup %s: %v", table, err)
		}
		if n != 1 {
			t.Errorf("table %s missing after migrate up", table)
		}
	}
	db.Close()

	if err := Migrate(cfg, Down, nil); err != nil {
		t.Fatalf("Migrate(down) error = %v", err)
	}
	db, err = Open(cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'bookings'`).Scan(&n); err != nil {
		t.Fatalf("lookup bookings: %v", err)
	}
	if n != 0 {
		t.Error("bookings table still present after migrate down")
	}
}

func TestDSNMySQLURLParsesTime(t *testing.T) {
	for _, raw := range []string{
		"hub:secret@tcp(db:3306)/hub",
		"hub:secret@tcp(db:3306)/hub?parseTime=false&loc=Local",
	} {
		got, err := DSN(config.DBConfig{Driver: config.DriverMySQL, URL: raw})
		if err != nil {
			t.Fatalf("DSN(%q) error = %v", raw, err)
		}
		mc, err := mysql.ParseDSN(got)
		if err != nil {
			t.Fatalf("result %q does not parse: %v", got, err)
		}
		if !mc.ParseTime || mc.Loc != time.UTC {
			t.Errorf("DSN(%q) = %q, want parseTime in UTC", raw, got)
		}
		if mc.User != "hub" || mc.Addr != "db:3306" || mc.DBName != "hub" {
			t.Errorf("DSN(%q) lost connection details: %+v", raw, mc)
		}
	}
}

func TestDSNMySQLURLMalformed(t *testing.T) {
	if _, err := DSN(config.DBConfig{Driver: config.DriverMySQL, URL: "mysql://hub@db/hub"}); err == nil {
		t.Fatal("expected error for URL-style mysql DSN")
	}
}
