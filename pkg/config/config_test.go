package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: development
ephemeris:
  service_url: http://localhost:9100
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Ephemeris.RefreshInterval != time.Hour {
		t.Fatalf("refresh interval default: %v", cfg.Ephemeris.RefreshInterval)
	}
	if cfg.Ephemeris.Window != time.Hour {
		t.Fatalf("window default: %v", cfg.Ephemeris.Window)
	}
	if cfg.Ephemeris.RefreshTimeout != 5*time.Second {
		t.Fatalf("refresh timeout default: %v", cfg.Ephemeris.RefreshTimeout)
	}
	if cfg.Cache.MemorySize != 100 {
		t.Fatalf("memory size default: %v", cfg.Cache.MemorySize)
	}
	if cfg.Cache.SummaryTTL != time.Minute {
		t.Fatalf("summary ttl default: %v", cfg.Cache.SummaryTTL)
	}
}

func TestLoadRequiresEphemerisURL(t *testing.T) {
	path := writeConfig(t, `
environment: development
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRejectsRepairTimeoutAboveInterval(t *testing.T) {
	path := writeConfig(t, `
environment: development
ephemeris:
  service_url: http://localhost:9100
  refresh_interval: 1m
  refresh_timeout: 2m
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRequiresKafkaBrokersWhenEnabled(t *testing.T) {
	path := writeConfig(t, `
environment: development
ephemeris:
  service_url: http://localhost:9100
kafka:
  enabled: true
  topic: transit.snapshots
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: development
ephemeris:
  service_url: http://localhost:9100
`)
	t.Setenv("EPHEMERIS_URL", "http://ephemeris:9100")

	cfg, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Ephemeris.ServiceURL != "http://ephemeris:9100" {
		t.Fatalf("env override ignored: %s", cfg.Ephemeris.ServiceURL)
	}
}
