package config

import (
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	conf, err := ParseConfig()
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if conf.TokenExpiry() <= 0 {
		t.Errorf("TokenExpiry = %v, want a positive default", conf.TokenExpiry())
	}
	if conf.HTTPPort == "" {
		t.Error("HTTPPort should have a default")
	}
	if conf.DefaultLanguage == "" {
		t.Error("DefaultLanguage should have a default")
	}
}

func TestParseConfigFromEnv(t *testing.T) {
	t.Setenv("DBType", "memory")
	t.Setenv("JWT_EXPIRATION_MINUTES", "30")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "2")
	t.Setenv("SEED_DEFAULT_USERS", "true")

	conf, err := ParseConfig()
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if conf.DBType != "memory" {
		t.Errorf("DBType = %q, want memory", conf.DBType)
	}
	if got := conf.TokenExpiry(); got != 30*time.Minute {
		t.Errorf("TokenExpiry = %v, want 30m", got)
	}
	if got := conf.RequestTimeout(); got != 2*time.Second {
		t.Errorf("RequestTimeout = %v, want 2s", got)
	}
	if !conf.SeedDefaultUsers {
		t.Error("SeedDefaultUsers should be true")
	}
}

func TestParseConfigRejectsBadNumber(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_MINUTES", "soon")

	if _, err := ParseConfig(); err == nil {
		t.Fatal("expected an error for a non-numeric expiry")
	}
}

func TestRequestTimeoutFallback(t *testing.T) {
	conf := Config{RequestTimeoutSeconds: 0}
	if got := conf.RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout = %v, want 5s", got)
	}
}
