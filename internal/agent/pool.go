package agent

import (
	"context"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/config"
	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/runner"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Pool owns a fixed set of agents, retrains them periodically over stored
// history, and aggregates their per-symbol predictions into a consensus.
type Pool struct {
	cfg    *config.Config
	data   interfaces.MarketData
	agents []*Agent
	run    *runner.Runner
}

func NewPool(cfg *config.Config, data interfaces.MarketData, agents []*Agent) *Pool {
	p := &Pool{cfg: cfg, data: data, agents: agents}
	p.run = runner.New("agent-pool", time.Duration(cfg.Agents.TrainingSeconds)*time.Second, p.tick)
	return p
}

func (p *Pool) Start() { p.run.Start() }
func (p *Pool) Stop()  { p.run.Stop() }

// tick is one retraining pass: every agent trains on the latest history of
// every configured symbol.
func (p *Pool) tick(ctx context.Context) error {
	logger.Info(ctx, "Starting periodic agent training")
	for _, symbol := range p.cfg.Ingestion.Symbols {
		hist := p.data.History(symbol)
		if len(hist) == 0 {
			continue
		}
		for _, a := range p.agents {
			if err := a.Train(ctx, hist); err != nil {
				logger.ErrorWithErr(ctx, "Agent training failed", err, "agent", a.ID(), "symbol", symbol)
			}
		}
	}
	logger.Info(ctx, "Periodic training completed")
	return nil
}

// GetPredictions fans the latest market state out to every agent and
// reduces the answers to a consensus. Absent market data degrades to an
// empty report with a neutral hold.
func (p *Pool) GetPredictions(ctx context.Context, symbol string) types.PredictionReport {
	state, ok := p.data.Latest(symbol)
	if !ok {
		logger.Warn(ctx, "No data available for symbol", "symbol", symbol)
		return types.PredictionReport{
			Symbol:      symbol,
			Predictions: []types.Prediction{},
			Consensus:   types.ActionHold,
			Confidence:  0.0,
			Ts:          time.Now().Unix(),
		}
	}

	preds := make([]types.Prediction, 0, len(p.agents))
	for _, a := range p.agents {
		preds = append(preds, a.Predict(ctx, state))
	}
	cons := BuildConsensus(preds)

	return types.PredictionReport{
		Symbol:      symbol,
		Predictions: preds,
		Consensus:   cons.Action,
		Confidence:  cons.Confidence,
		Ts:          time.Now().Unix(),
	}
}

// UpdateAgents fans a trade outcome back to every agent as a reinforcement
// reward. No-op when RL is disabled.
func (p *Pool) UpdateAgents(ctx context.Context, symbol, action string, result types.TradeResult) {
	if !p.cfg.Agents.RLEnabled {
		return
	}
	fb := types.Feedback{
		Symbol: symbol,
		Action: action,
		Reward: result.Profit,
		Result: result,
	}
	for _, a := range p.agents {
		a.Update(ctx, fb)
	}
}

func (p *Pool) Status() types.PoolStatus {
	agents := make(map[string]types.AgentStatus, len(p.agents))
	for _, a := range p.agents {
		agents[a.ID()] = a.Status()
	}
	return types.PoolStatus{
		Running:         p.run.Running(),
		NumAgents:       len(p.agents),
		ModelKinds:      append([]string(nil), p.cfg.Agents.Models...),
		RLEnabled:       p.cfg.Agents.RLEnabled,
		TrainingSeconds: p.cfg.Agents.TrainingSeconds,
		Agents:          agents,
	}
}
