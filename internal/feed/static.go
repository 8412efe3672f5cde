package feed

import (
	"context"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Static is a stub source: every symbol trades at a fixed price.
// It keeps the engine runnable and testable with no market connectivity.
type Static struct{}

var _ Source = Static{}

func (Static) Name() string { return "static" }

func (Static) Fetch(ctx context.Context, symbol string) (types.MarketState, error) {
	return types.MarketState{
		Symbol: symbol,
		Source: "static",
		Price:  100.0,
		Volume: 1000000,
		Open:   98.0,
		High:   102.0,
		Low:    97.0,
		Close:  100.0,
		Ts:     time.Now().Unix(),
	}, nil
}
