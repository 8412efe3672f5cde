package engineobs

import (
	"context"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/trace"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observableEngine{
		engine: eng,
	}
}

func (oe *observableEngine) Start(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "engine.Start")
	defer span.End()
	return oe.engine.Start(ctx)
}

func (oe *observableEngine) Stop(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "engine.Stop")
	defer span.End()
	return oe.engine.Stop(ctx)
}

func (oe *observableEngine) GetPredictions(ctx context.Context, symbol string) types.PredictionReport {
	ctx, span := trace.StartSpan(ctx, "engine.GetPredictions")
	defer span.End()

	start := time.Now()
	report := oe.engine.GetPredictions(ctx, symbol)

	logger.Info(ctx, "Prediction cycle completed",
		"symbol", symbol,
		"consensus", report.Consensus,
		"confidence", report.Confidence,
		"agents", len(report.Predictions),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report
}

func (oe *observableEngine) ExecuteTrade(ctx context.Context, symbol, action string, amount float64) (types.TradeResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.ExecuteTrade")
	defer span.End()

	start := time.Now()
	result, err := oe.engine.ExecuteTrade(ctx, symbol, action, amount)
	if err != nil {
		logger.ErrorWithErr(ctx, "Trade execution failed", err,
			"symbol", symbol,
			"action", action,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return result, err
	}

	logger.Info(ctx, "Trade execution completed",
		"symbol", symbol,
		"action", action,
		"success", result.Success,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (oe *observableEngine) Portfolio() types.PortfolioSnapshot { return oe.engine.Portfolio() }

func (oe *observableEngine) Metrics() types.Metrics { return oe.engine.Metrics() }

func (oe *observableEngine) Status() types.EngineStatus { return oe.engine.Status() }
