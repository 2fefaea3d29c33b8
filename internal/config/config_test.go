package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %q", cfg.Server.Address)
	}
	if cfg.Engine.DefaultSimCount != 10000 {
		t.Fatalf("expected default sim count 10000, got %d", cfg.Engine.DefaultSimCount)
	}
	if cfg.Engine.DefaultEpsilon != 0.1 {
		t.Fatalf("expected default epsilon 0.1, got %v", cfg.Engine.DefaultEpsilon)
	}
}

func TestLoadHonorsEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":9090")
	t.Setenv("ENGINE_DEFAULT_SIM_COUNT", "500")
	t.Setenv("ENGINE_QUERY_TIMEOUT", "2m")
	t.Setenv("RNG_SEED", "42")
	t.Setenv("RNG_DETERMINISTIC", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected overridden address :9090, got %q", cfg.Server.Address)
	}
	if cfg.Engine.DefaultSimCount != 500 {
		t.Fatalf("expected overridden sim count 500, got %d", cfg.Engine.DefaultSimCount)
	}
	if cfg.Engine.QueryTimeout != 2*time.Minute {
		t.Fatalf("expected overridden query timeout 2m, got %v", cfg.Engine.QueryTimeout)
	}
	if cfg.RNG.Seed != 42 || !cfg.RNG.Deterministic {
		t.Fatalf("expected overridden RNG config, got %+v", cfg.RNG)
	}
}

func TestLoadIgnoresInvalidOverrides(t *testing.T) {
	t.Setenv("ENGINE_DEFAULT_SIM_COUNT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.DefaultSimCount != 10000 {
		t.Fatalf("expected fallback to default on invalid override, got %d", cfg.Engine.DefaultSimCount)
	}
}
