package interfaces

import "github.com/AbhayRathi/TinyWindow/internal/types"

// MarketData serves the latest observation and stored history per symbol.
// Latest reports false when no data has been ingested for the symbol yet.
type MarketData interface {
	Latest(symbol string) (types.MarketState, bool)
	History(symbol string) []types.MarketState
}
