package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if len(cfg.Ingestion.Symbols) != 3 {
		t.Errorf("Expected 3 default symbols, got %d", len(cfg.Ingestion.Symbols))
	}
	if cfg.Optimization.StartingCash != 100000 {
		t.Errorf("Expected starting cash 100000, got %f", cfg.Optimization.StartingCash)
	}
	if cfg.Optimization.ConfidenceThreshold != 0.6 {
		t.Errorf("Expected confidence threshold 0.6, got %f", cfg.Optimization.ConfidenceThreshold)
	}
	if cfg.Optimization.MaxPositionSize != 0.1 {
		t.Errorf("Expected max position size 0.1, got %f", cfg.Optimization.MaxPositionSize)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if cfg.Optimization.StartingCash != 100000 {
		t.Errorf("Expected default starting cash, got %f", cfg.Optimization.StartingCash)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
ingestion:
  symbols: ["AAPL"]
optimization:
  starting_cash: 5000
  confidence_threshold: 0.8
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Ingestion.Symbols) != 1 || cfg.Ingestion.Symbols[0] != "AAPL" {
		t.Errorf("Expected symbols [AAPL], got %v", cfg.Ingestion.Symbols)
	}
	if cfg.Optimization.StartingCash != 5000 {
		t.Errorf("Expected starting cash 5000, got %f", cfg.Optimization.StartingCash)
	}
	if cfg.Optimization.ConfidenceThreshold != 0.8 {
		t.Errorf("Expected confidence threshold 0.8, got %f", cfg.Optimization.ConfidenceThreshold)
	}
	// Untouched sections keep their defaults.
	if cfg.Agents.TrainingSeconds != 86400 {
		t.Errorf("Expected default training interval, got %d", cfg.Agents.TrainingSeconds)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
optimization:
  max_position_size: 1.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected validation error for max_position_size > 1")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ingestion: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for malformed YAML")
	}
}

func TestValidateRanges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no symbols", func(c *Config) { c.Ingestion.Symbols = nil }},
		{"no sources", func(c *Config) { c.Ingestion.Sources = nil }},
		{"zero update interval", func(c *Config) { c.Ingestion.UpdateSeconds = 0 }},
		{"no models", func(c *Config) { c.Agents.Models = nil }},
		{"zero training interval", func(c *Config) { c.Agents.TrainingSeconds = 0 }},
		{"zero max position", func(c *Config) { c.Optimization.MaxPositionSize = 0 }},
		{"threshold above one", func(c *Config) { c.Optimization.ConfidenceThreshold = 1.5 }},
		{"zero risk tolerance", func(c *Config) { c.Optimization.RiskTolerance = 0 }},
		{"zero optimizer interval", func(c *Config) { c.Optimization.IntervalSeconds = 0 }},
		{"negative cash", func(c *Config) { c.Optimization.StartingCash = -1 }},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}
