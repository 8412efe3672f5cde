package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

type fakeModel struct {
	prediction types.Prediction
	predictErr error
	trainErr   error
	trainCalls int
	feedback   []types.Feedback
}

func (f *fakeModel) Predict(ctx context.Context, state types.MarketState) (types.Prediction, error) {
	return f.prediction, f.predictErr
}

func (f *fakeModel) Train(ctx context.Context, history []types.MarketState) error {
	f.trainCalls++
	return f.trainErr
}

func (f *fakeModel) Update(ctx context.Context, fb types.Feedback) error {
	f.feedback = append(f.feedback, fb)
	return nil
}

func TestUntrainedAgentReturnsNeutral(t *testing.T) {
	model := &fakeModel{prediction: types.Prediction{Action: types.ActionBuy, Confidence: 0.9}}
	a := NewAgent("a1", "lstm", model)

	pred := a.Predict(context.Background(), types.MarketState{Symbol: "SPY", Price: 100})

	if pred.Action != types.ActionHold {
		t.Errorf("Expected hold from untrained agent, got %s", pred.Action)
	}
	if pred.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %f", pred.Confidence)
	}
}

func TestTrainedAgentUsesModel(t *testing.T) {
	model := &fakeModel{prediction: types.Prediction{Action: types.ActionBuy, Confidence: 0.9}}
	a := NewAgent("a1", "lstm", model)
	ctx := context.Background()

	if err := a.Train(ctx, []types.MarketState{{Symbol: "SPY", Price: 100}}); err != nil {
		t.Fatalf("Expected training to succeed, got %v", err)
	}

	pred := a.Predict(ctx, types.MarketState{Symbol: "SPY", Price: 100})
	if pred.Action != types.ActionBuy {
		t.Errorf("Expected buy from trained agent, got %s", pred.Action)
	}
	if pred.AgentID != "a1" {
		t.Errorf("Expected agent id to be stamped, got %q", pred.AgentID)
	}
	if pred.ModelKind != "lstm" {
		t.Errorf("Expected model kind to be stamped, got %q", pred.ModelKind)
	}
}

func TestModelErrorFallsBackToNeutral(t *testing.T) {
	model := &fakeModel{predictErr: errors.New("boom")}
	a := NewAgent("a1", "lstm", model)
	ctx := context.Background()

	if err := a.Train(ctx, []types.MarketState{{Symbol: "SPY"}}); err != nil {
		t.Fatal(err)
	}

	pred := a.Predict(ctx, types.MarketState{Symbol: "SPY", Price: 100})
	if pred.Action != types.ActionHold {
		t.Errorf("Expected hold on model failure, got %s", pred.Action)
	}
	if pred.Confidence != 0.5 {
		t.Errorf("Expected confidence 0.5, got %f", pred.Confidence)
	}
}

func TestTrainFailureLeavesAgentUntrained(t *testing.T) {
	model := &fakeModel{
		prediction: types.Prediction{Action: types.ActionBuy, Confidence: 0.9},
		trainErr:   errors.New("no data"),
	}
	a := NewAgent("a1", "lstm", model)
	ctx := context.Background()

	if err := a.Train(ctx, nil); err == nil {
		t.Fatal("Expected training error")
	}

	pred := a.Predict(ctx, types.MarketState{Symbol: "SPY", Price: 100})
	if pred.Action != types.ActionHold {
		t.Errorf("Expected hold after failed training, got %s", pred.Action)
	}
}

func TestTrainIsIdempotent(t *testing.T) {
	model := &fakeModel{}
	a := NewAgent("a1", "lstm", model)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := a.Train(ctx, []types.MarketState{{Symbol: "SPY"}}); err != nil {
			t.Fatal(err)
		}
	}

	if model.trainCalls != 3 {
		t.Errorf("Expected 3 training passes, got %d", model.trainCalls)
	}
	if !a.Status().Trained {
		t.Error("Expected agent to report trained")
	}
}
