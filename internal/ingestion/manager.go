package ingestion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/config"
	"github.com/AbhayRathi/TinyWindow/internal/feed"
	"github.com/AbhayRathi/TinyWindow/internal/history"
	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/runner"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Manager fetches every configured symbol from every configured source each
// interval, caches the latest observation in memory, and persists snapshots
// to the history store. It is the MarketData collaborator for the rest of
// the engine.
type Manager struct {
	cfg     *config.Config
	sources []feed.Source
	store   *history.Store // nil disables persistence
	run     *runner.Runner

	mu    sync.RWMutex
	cache map[string]types.MarketState // "symbol:source"
}

var _ interfaces.MarketData = (*Manager)(nil)

func New(cfg *config.Config, sources []feed.Source, store *history.Store) *Manager {
	m := &Manager{
		cfg:     cfg,
		sources: sources,
		store:   store,
		cache:   make(map[string]types.MarketState),
	}
	m.run = runner.New("ingestion", time.Duration(cfg.Ingestion.UpdateSeconds)*time.Second, m.tick)
	return m
}

func (m *Manager) Start() { m.run.Start() }
func (m *Manager) Stop()  { m.run.Stop() }

// tick fetches one round of symbols × sources. Per-pair failures are logged
// and skipped; the round always completes.
func (m *Manager) tick(ctx context.Context) error {
	for _, symbol := range m.cfg.Ingestion.Symbols {
		for _, src := range m.sources {
			state, err := src.Fetch(ctx, symbol)
			if err != nil {
				logger.ErrorWithErr(ctx, "Fetch failed", err, "symbol", symbol, "source", src.Name())
				continue
			}
			m.cacheState(state)
			m.persist(ctx, state)
		}
	}
	return nil
}

func (m *Manager) cacheState(state types.MarketState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[cacheKey(state.Symbol, state.Source)] = state
}

func (m *Manager) persist(ctx context.Context, state types.MarketState) {
	if m.store == nil {
		return
	}
	if err := m.store.Append(ctx, state); err != nil {
		logger.ErrorWithErr(ctx, "Snapshot persist failed", err, "symbol", state.Symbol, "source", state.Source)
	}
}

// Latest returns the freshest cached observation for symbol, preferring
// sources in their configured order.
func (m *Manager) Latest(symbol string) (types.MarketState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, src := range m.sources {
		if state, ok := m.cache[cacheKey(symbol, src.Name())]; ok {
			return state, true
		}
	}
	return types.MarketState{}, false
}

// History returns stored snapshots for symbol in ascending time order,
// falling back to the in-memory cache when persistence is disabled.
func (m *Manager) History(symbol string) []types.MarketState {
	if m.store != nil {
		states, err := m.store.Load(context.Background(), symbol, 0)
		if err != nil {
			logger.ErrorWithErr(context.Background(), "History load failed", err, "symbol", symbol)
			return nil
		}
		return states
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.MarketState
	for _, src := range m.sources {
		if state, ok := m.cache[cacheKey(symbol, src.Name())]; ok {
			out = append(out, state)
		}
	}
	return out
}

func (m *Manager) Status() types.IngestionStatus {
	m.mu.RLock()
	cached := len(m.cache)
	m.mu.RUnlock()

	names := make([]string, 0, len(m.sources))
	for _, src := range m.sources {
		names = append(names, src.Name())
	}
	return types.IngestionStatus{
		Running:       m.run.Running(),
		Sources:       names,
		Symbols:       append([]string(nil), m.cfg.Ingestion.Symbols...),
		CachedItems:   cached,
		UpdateSeconds: m.cfg.Ingestion.UpdateSeconds,
	}
}

func cacheKey(symbol, source string) string {
	return fmt.Sprintf("%s:%s", symbol, source)
}
