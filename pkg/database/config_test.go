package database_test

import (
	"strings"
	"testing"
	"time"

	"github.com/camber-build/camber/pkg/database"
)

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := &database.Config{Name: "camber", User: "camber"}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetime, "15m"},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestConfigFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "db.internal")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_PASSWORD", "hunter2")
	t.Setenv("TEST_DB_MAX_OPEN", "50")

	cfg := &database.Config{Name: "camber", User: "camber"}
	env := &database.Env{
		Host:         "TEST_DB_HOST",
		Port:         "TEST_DB_PORT",
		Password:     "TEST_DB_PASSWORD",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
	}

	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Host != "db.internal" {
		t.Errorf("host = %s, want db.internal", cfg.Host)
	}
	if cfg.Port != 5433 {
		t.Errorf("port = %d, want 5433", cfg.Port)
	}
	if cfg.Password != "hunter2" {
		t.Errorf("password = %s, want hunter2", cfg.Password)
	}
	if cfg.MaxOpenConns != 50 {
		t.Errorf("max_open_conns = %d, want 50", cfg.MaxOpenConns)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{
			name:    "missing name",
			cfg:     database.Config{User: "camber"},
			wantErr: "name required",
		},
		{
			name:    "missing user",
			cfg:     database.Config{Name: "camber"},
			wantErr: "user required",
		},
		{
			name: "invalid conn_max_lifetime",
			cfg: database.Config{
				Name:            "camber",
				User:            "camber",
				ConnMaxLifetime: "forever",
			},
			wantErr: "invalid conn_max_lifetime",
		},
		{
			name: "invalid conn_timeout",
			cfg: database.Config{
				Name:        "camber",
				User:        "camber",
				ConnTimeout: "soon",
			},
			wantErr: "invalid conn_timeout",
		},
		{
			name: "valid",
			cfg:  database.Config{Name: "camber", User: "camber"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	base := database.Config{
		Host:     "localhost",
		Port:     5432,
		Name:     "camber",
		User:     "camber",
		SSLMode:  "disable",
		Password: "dev",
	}

	overlay := database.Config{
		Host:     "prod-db.internal",
		Password: "prod-secret",
		SSLMode:  "require",
	}

	base.Merge(&overlay)

	if base.Host != "prod-db.internal" {
		t.Errorf("host = %s, want prod-db.internal", base.Host)
	}
	if base.Password != "prod-secret" {
		t.Errorf("password = %s, want prod-secret", base.Password)
	}
	if base.SSLMode != "require" {
		t.Errorf("ssl_mode = %s, want require", base.SSLMode)
	}
	if base.Port != 5432 {
		t.Errorf("port = %d, want 5432 preserved", base.Port)
	}
	if base.Name != "camber" {
		t.Errorf("name = %s, want camber preserved", base.Name)
	}
}

func TestConfigMergeZeroValuesPreserved(t *testing.T) {
	base := database.Config{
		Host: "localhost",
		Port: 5432,
		Name: "camber",
		User: "camber",
	}

	base.Merge(&database.Config{})

	if base.Host != "localhost" || base.Port != 5432 {
		t.Error("empty overlay should not clear base values")
	}
	if base.Name != "camber" || base.User != "camber" {
		t.Error("empty overlay should not clear identity fields")
	}
}

func TestConfigDsn(t *testing.T) {
	cfg := database.Config{
		Host:     "localhost",
		Port:     5432,
		Name:     "camber",
		User:     "camber",
		Password: "dev",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 dbname=camber user=camber password=dev sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}

func TestConfigDurationParsers(t *testing.T) {
	cfg := database.Config{
		ConnMaxLifetime: "30m",
		ConnTimeout:     "10s",
	}

	if got := cfg.ConnMaxLifetimeDuration(); got != 30*time.Minute {
		t.Errorf("ConnMaxLifetimeDuration() = %v, want 30m", got)
	}
	if got := cfg.ConnTimeoutDuration(); got != 10*time.Second {
		t.Errorf("ConnTimeoutDuration() = %v, want 10s", got)
	}
}
