package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadRequiresStripeKey(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "STRIPE_SECRET_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	for _, k := range []string{"DB_DRIVER", "NOTIFY_TRANSPORT", "APP_PORT", "STRIPE_CURRENCY", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "8080" || cfg.DB.Driver != DriverSQLite || cfg.Notify.Transport != TransportDirect {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Stripe.Currency != "usd" || cfg.Stripe.VerifyIntents {
		t.Fatalf("unexpected stripe config %+v", cfg.Stripe)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoadRejectsUnknownTransport(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("NOTIFY_TRANSPORT", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestLoadDBRequiresCredentialsForServerDrivers(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "")
	if _, err := LoadDB(); err == nil {
		t.Fatal("expected error without DB_USER or DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://hub@localhost/hub")
	db, err := LoadDB()
	if err != nil {
		t.Fatal(err)
	}
	if db.URL != "postgres://hub@localhost/hub" {
		t.Fatalf("url = %q", db.URL)
	}
}

func TestEnvList(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	got := envList("KAFKA_BROKERS", nil)
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Fatalf("got %v", got)
	}
}

func TestRateLimitConfigNormalized(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	c := LoadRateLimitConfig()
	if c.Capacity != 1 {
		t.Fatalf("capacity = %d", c.Capacity)
	}
	if c.TTL != 10*time.Second {
		t.Fatalf("ttl = %v", c.TTL)
	}
}
