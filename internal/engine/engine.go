package engine

import (
	"context"
	"errors"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/agent"
	"github.com/AbhayRathi/TinyWindow/internal/ingestion"
	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/optimizer"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// ErrNotRunning is returned when an operation requires a started engine.
var ErrNotRunning = errors.New("engine is not running")

// Engine wires the ingestion, agent and optimization loops together and
// owns their lifecycle. Start order is data first, consumers after; Stop
// reverses it.
type Engine struct {
	sealer  interfaces.Sealer
	ingest  *ingestion.Manager
	pool    *agent.Pool
	opt     *optimizer.Optimizer
	running bool
}

var _ interfaces.Engine = (*Engine)(nil)

func New(sealer interfaces.Sealer, ingest *ingestion.Manager, pool *agent.Pool, opt *optimizer.Optimizer) *Engine {
	return &Engine{sealer: sealer, ingest: ingest, pool: pool, opt: opt}
}

func (e *Engine) Start(ctx context.Context) error {
	if e.running {
		logger.Warn(ctx, "Engine already running")
		return nil
	}
	logger.Info(ctx, "Starting trading engine")
	e.ingest.Start()
	e.pool.Start()
	e.opt.Start()
	e.running = true
	logger.Info(ctx, "Trading engine started")
	return nil
}

func (e *Engine) Stop(ctx context.Context) error {
	if !e.running {
		return nil
	}
	logger.Info(ctx, "Stopping trading engine")
	e.opt.Stop()
	e.pool.Stop()
	e.ingest.Stop()
	e.running = false
	logger.Info(ctx, "Trading engine stopped")
	return nil
}

func (e *Engine) GetPredictions(ctx context.Context, symbol string) types.PredictionReport {
	return e.pool.GetPredictions(ctx, symbol)
}

// ExecuteTrade applies an externally requested trade. A stopped engine is a
// usage error; validation failures inside a running engine come back as a
// failed TradeResult instead.
func (e *Engine) ExecuteTrade(ctx context.Context, symbol, action string, amount float64) (types.TradeResult, error) {
	if !e.running {
		return types.TradeResult{}, ErrNotRunning
	}
	return e.opt.ExecuteTrade(ctx, symbol, action, amount), nil
}

func (e *Engine) Portfolio() types.PortfolioSnapshot { return e.opt.Portfolio() }

func (e *Engine) Metrics() types.Metrics { return e.opt.Metrics() }

func (e *Engine) Status() types.EngineStatus {
	return types.EngineStatus{
		Running:    e.running,
		Ts:         time.Now().Unix(),
		Ingestion:  e.ingest.Status(),
		Agents:     e.pool.Status(),
		Optimizer:  e.opt.Status(),
		Encryption: e.sealer.Status(),
	}
}
