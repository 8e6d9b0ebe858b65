package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("DatabaseType = %q, want sqlite", cfg.DatabaseType)
	}
	if cfg.SourceTimeout != 5*time.Second {
		t.Errorf("SourceTimeout = %v, want 5s", cfg.SourceTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_TYPE", "postgres")
	t.Setenv("DB_URL", "postgres://localhost/theraplay")
	t.Setenv("GESTURE_SERVICE_URL", "http://gesture.internal")
	t.Setenv("SOURCE_TIMEOUT_SECONDS", "12")

	cfg := Load()

	if cfg.ServerPort != "9090" {
		t.Errorf("ServerPort = %q, want 9090", cfg.ServerPort)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("DatabaseType = %q, want postgres", cfg.DatabaseType)
	}
	if cfg.DatabaseURL != "postgres://localhost/theraplay" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.GestureServiceURL != "http://gesture.internal" {
		t.Errorf("GestureServiceURL = %q", cfg.GestureServiceURL)
	}
	if cfg.SourceTimeout != 12*time.Second {
		t.Errorf("SourceTimeout = %v, want 12s", cfg.SourceTimeout)
	}
}

func TestLoadInvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("SOURCE_TIMEOUT_SECONDS", "not-a-number")

	cfg := Load()

	if cfg.SourceTimeout != 5*time.Second {
		t.Errorf("SourceTimeout = %v, want default 5s", cfg.SourceTimeout)
	}
}
