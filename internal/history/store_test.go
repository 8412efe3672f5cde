package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AbhayRathi/TinyWindow/internal/seal"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

func openTestStore(t *testing.T, maxPerSymbol int) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, seal.Noop{}, maxPerSymbol)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndLoad(t *testing.T) {
	store := openTestStore(t, 100)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		state := types.MarketState{
			Symbol: "SPY",
			Source: "static",
			Price:  100 + float64(i),
			Ts:     int64(1000 + i),
		}
		if err := store.Append(ctx, state); err != nil {
			t.Fatal(err)
		}
	}

	states, err := store.Load(ctx, "SPY", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 5 {
		t.Fatalf("Expected 5 snapshots, got %d", len(states))
	}
	for i := 1; i < len(states); i++ {
		if states[i].Ts < states[i-1].Ts {
			t.Fatalf("Expected ascending order, got %d before %d", states[i-1].Ts, states[i].Ts)
		}
	}
	if states[0].Price != 100 {
		t.Errorf("Expected oldest snapshot first, got price %f", states[0].Price)
	}
}

func TestLoadIsolatesSymbols(t *testing.T) {
	store := openTestStore(t, 100)
	ctx := context.Background()

	_ = store.Append(ctx, types.MarketState{Symbol: "SPY", Source: "static", Price: 100, Ts: 1})
	_ = store.Append(ctx, types.MarketState{Symbol: "BTC-USD", Source: "static", Price: 50000, Ts: 2})

	states, err := store.Load(ctx, "SPY", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 {
		t.Fatalf("Expected 1 snapshot for SPY, got %d", len(states))
	}
	if states[0].Symbol != "SPY" {
		t.Errorf("Expected SPY, got %s", states[0].Symbol)
	}
}

func TestRetentionCap(t *testing.T) {
	store := openTestStore(t, 3)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		state := types.MarketState{Symbol: "SPY", Source: "static", Price: float64(i), Ts: int64(i)}
		if err := store.Append(ctx, state); err != nil {
			t.Fatal(err)
		}
	}

	states, err := store.Load(ctx, "SPY", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 3 {
		t.Fatalf("Expected cap of 3 snapshots, got %d", len(states))
	}
	// Newest three survive.
	if states[0].Ts != 7 || states[2].Ts != 9 {
		t.Errorf("Expected snapshots 7..9, got %d..%d", states[0].Ts, states[2].Ts)
	}
}

func TestSealedRoundTrip(t *testing.T) {
	box, err := seal.New("kyber", 3072)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path, box, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	in := types.MarketState{Symbol: "SPY", Source: "yahoo_finance", Price: 432.1, Volume: 12345, Ts: 99}
	if err := store.Append(ctx, in); err != nil {
		t.Fatal(err)
	}

	states, err := store.Load(ctx, "SPY", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 1 {
		t.Fatalf("Expected 1 snapshot, got %d", len(states))
	}
	if states[0] != in {
		t.Errorf("Expected %+v, got %+v", in, states[0])
	}
}

func TestLoadUnknownSymbol(t *testing.T) {
	store := openTestStore(t, 10)

	states, err := store.Load(context.Background(), "NOPE", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(states) != 0 {
		t.Errorf("Expected no snapshots, got %d", len(states))
	}
}
