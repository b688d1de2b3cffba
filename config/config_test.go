package config_test

import (
	"strings"
	"testing"
	"time"

	"studyload/config"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/studyload")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DBDriver != config.DriverPostgres {
		t.Errorf("DBDriver = %q, want postgres", cfg.DBDriver)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location = %v, want UTC", cfg.Location())
	}
	if cfg.Production() {
		t.Error("default environment should not be production")
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/tasks.db")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("TIMEZONE", "Asia/Manila")

	cfg, err := config.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.DBDriver != config.DriverSQLite || cfg.SQLitePath != "/tmp/tasks.db" {
		t.Errorf("driver settings = %q %q", cfg.DBDriver, cfg.SQLitePath)
	}
	if cfg.SessionTTL != 90*time.Minute {
		t.Errorf("SessionTTL = %v, want 90m", cfg.SessionTTL)
	}
	if cfg.Location().String() != "Asia/Manila" {
		t.Errorf("Location = %v", cfg.Location())
	}
	if !cfg.Production() {
		t.Error("expected production")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing database url", map[string]string{"DB_DRIVER": "postgres", "DATABASE_URL": ""}, "DATABASE_URL is required"},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}, "unsupported DB_DRIVER"},
		{"bad duration", map[string]string{"DATABASE_URL": "x", "SESSION_TTL": "soon"}, "parse env:"},
		{"bad timezone", map[string]string{"DATABASE_URL": "x", "TIMEZONE": "Mars/Olympus"}, "TIMEZONE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}
