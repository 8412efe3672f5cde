package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/AbhayRathi/TinyWindow/internal/agent"
	"github.com/AbhayRathi/TinyWindow/internal/config"
	"github.com/AbhayRathi/TinyWindow/internal/engine"
	"github.com/AbhayRathi/TinyWindow/internal/engine/engineobs"
	"github.com/AbhayRathi/TinyWindow/internal/feed"
	"github.com/AbhayRathi/TinyWindow/internal/history"
	"github.com/AbhayRathi/TinyWindow/internal/ingestion"
	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/model/sentiment"
	"github.com/AbhayRathi/TinyWindow/internal/model/stub"
	"github.com/AbhayRathi/TinyWindow/internal/optimizer"
	"github.com/AbhayRathi/TinyWindow/internal/seal"
	"github.com/AbhayRathi/TinyWindow/internal/trace"
	"github.com/AbhayRathi/TinyWindow/internal/tradelog"
)

// historyCap bounds stored snapshots per symbol.
const historyCap = 10000

// initializeSystem loads the environment and brings up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}

	// The env var wins over the config file for log level.
	if os.Getenv("LOG_LEVEL") == "" {
		lc := logger.LoadConfigFromEnv()
		lc.Level = cfg.System.LogLevel
		if err := logger.InitWithConfig(lc); err != nil {
			return nil, fmt.Errorf("failed to reconfigure logger: %w", err)
		}
	}
	return cfg, nil
}

// compressOldLogs gzips old tradelog files if retention is configured.
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TINYWINDOW_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeSealer builds the snapshot encryption layer. Disabled encryption
// degrades to a passthrough.
func initializeSealer(ctx context.Context, cfg *config.Config) (interfaces.Sealer, error) {
	if !cfg.Encryption.Enabled {
		logger.Warn(ctx, "Encryption disabled - snapshots stored in plaintext")
		return seal.Noop{}, nil
	}
	box, err := seal.New(cfg.Encryption.Algorithm, cfg.Encryption.KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sealer: %w", err)
	}
	return box, nil
}

// initializeSources maps configured source names to feed implementations.
// Unknown names are logged and skipped.
func initializeSources(ctx context.Context, cfg *config.Config) []feed.Source {
	var sources []feed.Source
	for _, name := range cfg.Ingestion.Sources {
		switch name {
		case "static":
			sources = append(sources, feed.Static{})
		case "yahoo_finance":
			sources = append(sources, feed.NewYahoo())
		case "kite":
			sources = append(sources, feed.NewKite(
				os.Getenv("KITE_API_KEY"),
				os.Getenv("KITE_ACCESS_TOKEN"),
				os.Getenv("KITE_EXCHANGE"),
			))
		default:
			logger.Warn(ctx, "Unknown data source, skipping", "source", name)
		}
	}
	if len(sources) == 0 {
		logger.Warn(ctx, "No usable data sources configured - falling back to static")
		sources = append(sources, feed.Static{})
	}
	return sources
}

// initializeAgents builds one agent per configured model kind.
func initializeAgents(cfg *config.Config) []*agent.Agent {
	agents := make([]*agent.Agent, 0, len(cfg.Agents.Models))
	for i, kind := range cfg.Agents.Models {
		var model interfaces.Predictor
		switch kind {
		case "sentiment":
			model = sentiment.New()
		default:
			model = stub.New(kind)
		}
		id := fmt.Sprintf("agent-%d-%s", i, kind)
		agents = append(agents, agent.NewAgent(id, kind, model))
	}
	return agents
}

// initializeEngine assembles the full engine with observability. The cleanup
// closes the history store.
func initializeEngine(ctx context.Context, cfg *config.Config) (interfaces.Engine, func(), error) {
	sealer, err := initializeSealer(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := os.MkdirAll(cfg.System.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	store, err := history.Open(filepath.Join(cfg.System.DataDir, "history.db"), sealer, historyCap)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history store: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.ErrorWithErr(ctx, "History store close failed", err)
		}
	}

	ingest := ingestion.New(cfg, initializeSources(ctx, cfg), store)
	pool := agent.NewPool(cfg, ingest, initializeAgents(cfg))
	opt := optimizer.New(cfg, pool, ingest)

	eng := engine.New(sealer, ingest, pool, opt)
	return engineobs.Wrap(eng), cleanup, nil
}
