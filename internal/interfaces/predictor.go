package interfaces

import (
	"context"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Predictor is a pluggable forecasting model. Train must be idempotent;
// Update applies a reinforcement reward and must not corrupt state when the
// implementation chooses to ignore it.
type Predictor interface {
	Predict(ctx context.Context, state types.MarketState) (types.Prediction, error)
	Train(ctx context.Context, history []types.MarketState) error
	Update(ctx context.Context, fb types.Feedback) error
}
