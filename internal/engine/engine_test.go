package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/agent"
	"github.com/AbhayRathi/TinyWindow/internal/config"
	"github.com/AbhayRathi/TinyWindow/internal/feed"
	"github.com/AbhayRathi/TinyWindow/internal/ingestion"
	"github.com/AbhayRathi/TinyWindow/internal/model/stub"
	"github.com/AbhayRathi/TinyWindow/internal/optimizer"
	"github.com/AbhayRathi/TinyWindow/internal/seal"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	t.Setenv("TINYWINDOW_LOG_DIR", t.TempDir())

	cfg := config.Default()
	cfg.Ingestion.Symbols = []string{"SPY"}

	ingest := ingestion.New(cfg, []feed.Source{feed.Static{}}, nil)
	pool := agent.NewPool(cfg, ingest, []*agent.Agent{
		agent.NewAgent("a1", "lstm", stub.New("lstm")),
	})
	opt := optimizer.New(cfg, pool, ingest)
	return New(seal.Noop{}, ingest, pool, opt)
}

func TestExecuteTradeRequiresRunningEngine(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.ExecuteTrade(context.Background(), "SPY", types.ActionBuy, 100)
	if !errors.Is(err, ErrNotRunning) {
		t.Errorf("Expected ErrNotRunning, got %v", err)
	}
}

func TestStartStopLifecycle(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	if eng.Status().Running {
		t.Error("Expected not running before Start")
	}

	if err := eng.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if !eng.Status().Running {
		t.Error("Expected running after Start")
	}

	// Second Start is a no-op.
	if err := eng.Start(ctx); err != nil {
		t.Fatal(err)
	}

	if err := eng.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if eng.Status().Running {
		t.Error("Expected not running after Stop")
	}

	// Second Stop is a no-op.
	if err := eng.Stop(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestStatusAggregatesComponents(t *testing.T) {
	eng := newTestEngine(t)

	status := eng.Status()
	if status.Ts == 0 {
		t.Error("Expected a timestamp")
	}
	if status.Agents.NumAgents != 1 {
		t.Errorf("Expected 1 agent, got %d", status.Agents.NumAgents)
	}
	if status.Optimizer.PortfolioValue != 100000 {
		t.Errorf("Expected portfolio value 100000, got %f", status.Optimizer.PortfolioValue)
	}
	if status.Encryption.Algorithm != "none" {
		t.Errorf("Expected noop sealer, got %s", status.Encryption.Algorithm)
	}
}

func TestExecuteTradeWhileRunning(t *testing.T) {
	eng := newTestEngine(t)
	ctx := context.Background()

	if err := eng.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = eng.Stop(ctx) }()

	// The first ingestion tick runs asynchronously; retry until market
	// data is available.
	var res types.TradeResult
	deadline := time.After(5 * time.Second)
	for {
		var err error
		res, err = eng.ExecuteTrade(ctx, "SPY", types.ActionBuy, 1000)
		if err != nil {
			t.Fatal(err)
		}
		if res.Success {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Expected trade to succeed, got %s", res.Error)
		case <-time.After(20 * time.Millisecond):
		}
	}

	snap := eng.Portfolio()
	if snap.Cash != 99000 {
		t.Errorf("Expected cash 99000 after buy, got %f", snap.Cash)
	}
}
