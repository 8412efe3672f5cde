package interfaces

import (
	"context"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Engine is the orchestrator surface exposed to callers.
type Engine interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	GetPredictions(ctx context.Context, symbol string) types.PredictionReport
	ExecuteTrade(ctx context.Context, symbol, action string, amount float64) (types.TradeResult, error)
	Portfolio() types.PortfolioSnapshot
	Metrics() types.Metrics
	Status() types.EngineStatus
}
