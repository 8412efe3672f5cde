package stub

import (
	"context"

	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Model is the placeholder predictor used until a real RL/ML model is
// plugged in. Once trained it leans hold with fixed confidence and projects
// a 1% price rise.
type Model struct {
	kind string
}

var _ interfaces.Predictor = (*Model)(nil)

func New(kind string) *Model {
	return &Model{kind: kind}
}

func (m *Model) Predict(ctx context.Context, state types.MarketState) (types.Prediction, error) {
	return types.Prediction{
		Action:         types.ActionHold,
		Confidence:     0.75,
		PredictedPrice: state.Price * 1.01,
	}, nil
}

func (m *Model) Train(ctx context.Context, history []types.MarketState) error {
	return nil
}

func (m *Model) Update(ctx context.Context, fb types.Feedback) error {
	return nil
}
