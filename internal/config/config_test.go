package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/suivicare_test")
	t.Setenv("SECRET_KEY", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8000" {
		t.Errorf("expected default port 8000, got %q", cfg.Port)
	}
	if cfg.Env != "development" || !cfg.IsDev() {
		t.Errorf("expected development env, got %q", cfg.Env)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 5 {
		t.Errorf("unexpected pool defaults: max=%d min=%d", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.SessionTTLMinutes != 720 {
		t.Errorf("expected session TTL 720, got %d", cfg.SessionTTLMinutes)
	}
	if cfg.MigrationsDir != "./migrations" {
		t.Errorf("unexpected migrations dir %q", cfg.MigrationsDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/suivicare_test")
	t.Setenv("SECRET_KEY", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_TTL_MINUTES", "60")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.IsDev() {
		t.Error("expected non-development env")
	}
	if cfg.SessionTTLMinutes != 60 {
		t.Errorf("expected session TTL 60, got %d", cfg.SessionTTLMinutes)
	}
}

func TestLoad_RequiredSettings(t *testing.T) {
	t.Run("missing database url", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("SECRET_KEY", "test-secret")
		if _, err := Load(); err == nil {
			t.Error("expected error without DATABASE_URL")
		}
	})

	t.Run("missing secret key", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://localhost/suivicare_test")
		t.Setenv("SECRET_KEY", "")
		if _, err := Load(); err == nil {
			t.Error("expected error without SECRET_KEY")
		}
	})
}
