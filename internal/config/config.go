package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Ingestion struct {
	Sources          []string `yaml:"sources"`
	UpdateSeconds    int      `yaml:"update_seconds"`
	Symbols          []string `yaml:"symbols"`
	HistoricalPeriod string   `yaml:"historical_period"`
}

type Agents struct {
	RLEnabled       bool     `yaml:"rl_enabled"`
	Models          []string `yaml:"models"`
	TrainingSeconds int      `yaml:"training_seconds"`
	ExplorationRate float64  `yaml:"exploration_rate"`
}

type Optimization struct {
	Enabled             bool    `yaml:"enabled"`
	Algorithm           string  `yaml:"algorithm"`
	RiskTolerance       float64 `yaml:"risk_tolerance"`
	MaxPositionSize     float64 `yaml:"max_position_size"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	IntervalSeconds     int     `yaml:"interval_seconds"`
	StartingCash        float64 `yaml:"starting_cash"`
}

type Encryption struct {
	Algorithm string `yaml:"algorithm"`
	KeySize   int    `yaml:"key_size"`
	Enabled   bool   `yaml:"enabled"`
}

type System struct {
	LogLevel string `yaml:"log_level"`
	DataDir  string `yaml:"data_dir"`
	ModelDir string `yaml:"model_dir"`
}

type Config struct {
	Ingestion    Ingestion    `yaml:"ingestion"`
	Agents       Agents       `yaml:"agents"`
	Optimization Optimization `yaml:"optimization"`
	Encryption   Encryption   `yaml:"encryption"`
	System       System       `yaml:"system"`
}

// Default returns the built-in configuration, used when no file exists and as
// the base that a loaded file overrides.
func Default() *Config {
	return &Config{
		Ingestion: Ingestion{
			Sources:          []string{"static"},
			UpdateSeconds:    3600,
			Symbols:          []string{"BTC-USD", "ETH-USD", "SPY"},
			HistoricalPeriod: "1y",
		},
		Agents: Agents{
			RLEnabled:       true,
			Models:          []string{"lstm", "transformer", "gradient_boosting"},
			TrainingSeconds: 86400,
			ExplorationRate: 0.1,
		},
		Optimization: Optimization{
			Enabled:             true,
			Algorithm:           "reinforcement_learning",
			RiskTolerance:       0.3,
			MaxPositionSize:     0.1,
			ConfidenceThreshold: 0.6,
			IntervalSeconds:     60,
			StartingCash:        100000,
		},
		Encryption: Encryption{
			Algorithm: "kyber",
			KeySize:   3072,
			Enabled:   true,
		},
		System: System{
			LogLevel: "INFO",
			DataDir:  "data",
			ModelDir: "models",
		},
	}
}

func (c *Config) Validate() error {
	if len(c.Ingestion.Symbols) == 0 {
		return errors.New("ingestion.symbols cannot be empty")
	}
	if len(c.Ingestion.Sources) == 0 {
		return errors.New("ingestion.sources cannot be empty")
	}
	if c.Ingestion.UpdateSeconds <= 0 {
		return fmt.Errorf("ingestion.update_seconds must be positive, got %d", c.Ingestion.UpdateSeconds)
	}
	if len(c.Agents.Models) == 0 {
		return errors.New("agents.models cannot be empty")
	}
	if c.Agents.TrainingSeconds <= 0 {
		return fmt.Errorf("agents.training_seconds must be positive, got %d", c.Agents.TrainingSeconds)
	}
	if c.Optimization.MaxPositionSize <= 0 || c.Optimization.MaxPositionSize > 1 {
		return fmt.Errorf("optimization.max_position_size must be in (0,1], got %.2f", c.Optimization.MaxPositionSize)
	}
	if c.Optimization.ConfidenceThreshold < 0 || c.Optimization.ConfidenceThreshold > 1 {
		return fmt.Errorf("optimization.confidence_threshold must be in [0,1], got %.2f", c.Optimization.ConfidenceThreshold)
	}
	if c.Optimization.RiskTolerance <= 0 || c.Optimization.RiskTolerance > 1 {
		return fmt.Errorf("optimization.risk_tolerance must be in (0,1], got %.2f", c.Optimization.RiskTolerance)
	}
	if c.Optimization.IntervalSeconds <= 0 {
		return fmt.Errorf("optimization.interval_seconds must be positive, got %d", c.Optimization.IntervalSeconds)
	}
	if c.Optimization.StartingCash < 0 {
		return fmt.Errorf("optimization.starting_cash cannot be negative, got %.2f", c.Optimization.StartingCash)
	}
	return nil
}

// Load reads a YAML config file over the defaults. A missing file is not an
// error, the defaults apply as-is.
func Load(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}
