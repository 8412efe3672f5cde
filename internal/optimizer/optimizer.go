package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/agent"
	"github.com/AbhayRathi/TinyWindow/internal/config"
	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/portfolio"
	"github.com/AbhayRathi/TinyWindow/internal/runner"
	"github.com/AbhayRathi/TinyWindow/internal/tradelog"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Optimizer is the decision loop. Each cycle it asks the agent pool for a
// consensus per symbol, sizes a bounded trade against the ledger, executes
// it and feeds the outcome back to the agents. Deciding and executing
// happen inside one ledger transaction so the sizing inputs cannot go stale
// between the two steps.
type Optimizer struct {
	cfg    *config.Config
	pool   *agent.Pool
	data   interfaces.MarketData
	ledger *portfolio.Ledger
	run    *runner.Runner
}

func New(cfg *config.Config, pool *agent.Pool, data interfaces.MarketData) *Optimizer {
	o := &Optimizer{
		cfg:    cfg,
		pool:   pool,
		data:   data,
		ledger: portfolio.NewLedger(cfg.Optimization.StartingCash),
	}
	o.run = runner.New("optimizer", time.Duration(cfg.Optimization.IntervalSeconds)*time.Second, o.tick)
	return o
}

func (o *Optimizer) Start() {
	if !o.cfg.Optimization.Enabled {
		logger.Info(context.Background(), "Optimization disabled, loop not started")
		return
	}
	o.run.Start()
}

func (o *Optimizer) Stop() { o.run.Stop() }

func (o *Optimizer) tick(ctx context.Context) error {
	for _, symbol := range o.cfg.Ingestion.Symbols {
		o.cycle(ctx, symbol)
	}
	return nil
}

// cycle runs decide and execute for one symbol under a single ledger
// transaction.
func (o *Optimizer) cycle(ctx context.Context, symbol string) {
	report := o.pool.GetPredictions(ctx, symbol)

	var (
		decision types.Decision
		executed bool
		rec      types.TradeRecord
		realized float64
	)
	o.ledger.Update(func(tx *portfolio.Tx) {
		decision = o.decide(tx, symbol, report)
		switch decision.Action {
		case types.ActionBuy:
			amount := decision.Amount
			if amount > tx.Cash() {
				amount = tx.Cash()
			}
			if amount <= 0 {
				return
			}
			state, ok := o.data.Latest(symbol)
			if !ok || state.Price <= 0 {
				logger.Warn(ctx, "No price available, skipping buy", "symbol", symbol)
				return
			}
			rec = tx.Buy(symbol, amount, state.Price, decision.Confidence, decision.Reason)
			executed = true
		case types.ActionSell:
			if decision.Amount <= 0 {
				return
			}
			state, ok := o.data.Latest(symbol)
			if !ok || state.Price <= 0 {
				logger.Warn(ctx, "No price available, skipping sell", "symbol", symbol)
				return
			}
			rec, realized = tx.Sell(symbol, decision.Amount, state.Price, decision.Confidence, decision.Reason)
			executed = true
		}
	})

	logger.Decision(ctx, symbol, decision.Action, decision.Confidence, decision.Reason)
	if err := tradelog.AppendDecision(symbol, decision); err != nil {
		logger.ErrorWithErr(ctx, "Decision log append failed", err, "symbol", symbol)
	}
	if !executed {
		return
	}

	logger.Trade(ctx, symbol, rec.Action, rec.Amount, rec.Price)
	if err := tradelog.AppendTrade(rec, realized); err != nil {
		logger.ErrorWithErr(ctx, "Trade log append failed", err, "symbol", symbol)
	}

	metrics := o.ledger.Metrics()
	o.pool.UpdateAgents(ctx, symbol, rec.Action, types.TradeResult{
		Success: true,
		Symbol:  symbol,
		Action:  rec.Action,
		Amount:  rec.Amount,
		Price:   rec.Price,
		Ts:      rec.Ts,
		Profit:  metrics.TotalProfit,
	})
}

// decide maps a consensus to a bounded trade. Anything under the confidence
// threshold holds; a buy is capped at the max position fraction of total
// value scaled by confidence; a sell liquidates the confidence-scaled slice
// of the open position. Must run inside the ledger transaction that will
// execute it.
func (o *Optimizer) decide(tx *portfolio.Tx, symbol string, report types.PredictionReport) types.Decision {
	opt := o.cfg.Optimization
	if report.Confidence < opt.ConfidenceThreshold {
		return types.Decision{Action: types.ActionHold, Confidence: report.Confidence, Reason: types.ReasonLowConfidence}
	}

	switch report.Consensus {
	case types.ActionBuy:
		amount := tx.TotalValue() * opt.MaxPositionSize * report.Confidence
		return types.Decision{
			Action:     types.ActionBuy,
			Amount:     amount,
			Confidence: report.Confidence,
			Reason:     types.ReasonConsensusBuy,
		}
	case types.ActionSell:
		pos, ok := tx.Position(symbol)
		if !ok {
			break
		}
		return types.Decision{
			Action:     types.ActionSell,
			Amount:     pos.Value * report.Confidence,
			Confidence: report.Confidence,
			Reason:     types.ReasonConsensusSell,
		}
	}
	return types.Decision{Action: types.ActionHold, Confidence: report.Confidence, Reason: types.ReasonDefault}
}

// ExecuteTrade applies an externally requested trade. Validation failures
// come back as a failed TradeResult with the ledger untouched; they are not
// errors.
func (o *Optimizer) ExecuteTrade(ctx context.Context, symbol, action string, amount float64) types.TradeResult {
	if !o.cfg.Optimization.Enabled {
		return types.TradeResult{Success: false, Error: "optimizer disabled"}
	}
	if action != types.ActionBuy && action != types.ActionSell {
		return types.TradeResult{Success: false, Error: fmt.Sprintf("invalid action: %s", action)}
	}
	if amount <= 0 {
		return types.TradeResult{Success: false, Error: "amount must be positive"}
	}

	state, ok := o.data.Latest(symbol)
	if !ok || state.Price <= 0 {
		return types.TradeResult{Success: false, Error: fmt.Sprintf("no market data for %s", symbol)}
	}

	var (
		result   types.TradeResult
		rec      types.TradeRecord
		realized float64
	)
	o.ledger.Update(func(tx *portfolio.Tx) {
		switch action {
		case types.ActionBuy:
			if amount > tx.Cash() {
				result = types.TradeResult{Success: false, Error: "insufficient cash"}
				return
			}
			rec = tx.Buy(symbol, amount, state.Price, 1.0, types.ReasonExternal)
		case types.ActionSell:
			if _, ok := tx.Position(symbol); !ok {
				result = types.TradeResult{Success: false, Error: fmt.Sprintf("no position in %s", symbol)}
				return
			}
			rec, realized = tx.Sell(symbol, amount, state.Price, 1.0, types.ReasonExternal)
		}
		result = types.TradeResult{
			Success: true,
			Symbol:  symbol,
			Action:  rec.Action,
			Amount:  rec.Amount,
			Price:   rec.Price,
			Ts:      rec.Ts,
			Profit:  tx.Metrics().TotalProfit,
		}
	})

	if !result.Success {
		logger.Warn(ctx, "Trade rejected", "symbol", symbol, "action", action, "error", result.Error)
		return result
	}

	logger.Trade(ctx, symbol, rec.Action, rec.Amount, rec.Price)
	if err := tradelog.AppendTrade(rec, realized); err != nil {
		logger.ErrorWithErr(ctx, "Trade log append failed", err, "symbol", symbol)
	}
	o.pool.UpdateAgents(ctx, symbol, rec.Action, result)
	return result
}

// Portfolio returns a deep-copied snapshot of the ledger.
func (o *Optimizer) Portfolio() types.PortfolioSnapshot { return o.ledger.Snapshot() }

func (o *Optimizer) Metrics() types.Metrics { return o.ledger.Metrics() }

func (o *Optimizer) Status() types.OptimizerStatus {
	opt := o.cfg.Optimization
	return types.OptimizerStatus{
		Running:         o.run.Running(),
		Enabled:         opt.Enabled,
		Algorithm:       opt.Algorithm,
		RiskTolerance:   opt.RiskTolerance,
		MaxPositionSize: opt.MaxPositionSize,
		PortfolioValue:  o.ledger.TotalValue(),
		Metrics:         o.ledger.Metrics(),
	}
}
