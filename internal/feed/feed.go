package feed

import (
	"context"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Source fetches the current market state of one symbol from one provider.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (types.MarketState, error)
}
