package agent

import (
	"context"
	"sync"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Agent wraps one forecasting model. Until the model has been trained at
// least once, Predict fails safe with a neutral hold instead of guessing.
type Agent struct {
	id    string
	kind  string
	model interfaces.Predictor

	mu           sync.Mutex
	trained      bool
	lastTraining time.Time
}

func NewAgent(id, kind string, model interfaces.Predictor) *Agent {
	return &Agent{id: id, kind: kind, model: model}
}

func (a *Agent) ID() string { return a.id }

// Predict returns the model's view of the market state. An untrained model
// or a model failure degrades to {hold, 0.5}; prediction never errors.
func (a *Agent) Predict(ctx context.Context, state types.MarketState) types.Prediction {
	a.mu.Lock()
	trained := a.trained
	a.mu.Unlock()

	if !trained {
		logger.Warn(ctx, "Model not trained, returning neutral prediction", "agent", a.id)
		return a.neutral()
	}

	pred, err := a.model.Predict(ctx, state)
	if err != nil {
		logger.ErrorWithErr(ctx, "Model prediction failed, returning neutral prediction", err, "agent", a.id)
		return a.neutral()
	}
	pred.AgentID = a.id
	pred.ModelKind = a.kind
	if pred.Ts == 0 {
		pred.Ts = time.Now().Unix()
	}
	return pred
}

// Train feeds historical data to the model and marks the agent trained.
// Safe to call repeatedly.
func (a *Agent) Train(ctx context.Context, history []types.MarketState) error {
	if err := a.model.Train(ctx, history); err != nil {
		return err
	}
	a.mu.Lock()
	a.trained = true
	a.lastTraining = time.Now()
	a.mu.Unlock()
	return nil
}

// Update applies a reinforcement feedback signal to the model.
func (a *Agent) Update(ctx context.Context, fb types.Feedback) {
	if err := a.model.Update(ctx, fb); err != nil {
		logger.ErrorWithErr(ctx, "Model update failed", err, "agent", a.id)
	}
}

func (a *Agent) Status() types.AgentStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return types.AgentStatus{ModelKind: a.kind, Trained: a.trained}
}

func (a *Agent) neutral() types.Prediction {
	return types.Prediction{
		AgentID:    a.id,
		ModelKind:  a.kind,
		Action:     types.ActionHold,
		Confidence: 0.5,
		Ts:         time.Now().Unix(),
	}
}
