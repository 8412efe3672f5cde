package portfolio

import (
	"math"
	"sync"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Ledger is the single source of truth for cash, positions and realized
// performance. All mutation happens inside Update, which holds the ledger
// lock for the whole callback so that a decision and its execution see one
// consistent state.
type Ledger struct {
	mu         sync.Mutex
	cash       float64
	positions  map[string]*types.Position
	trades     []types.TradeRecord
	metrics    types.Metrics
	totalValue float64
	values     []float64 // total value after each trade, for sharpe/drawdown
}

func NewLedger(startingCash float64) *Ledger {
	return &Ledger{
		cash:       startingCash,
		positions:  make(map[string]*types.Position),
		totalValue: startingCash,
	}
}

// Tx is a view of the ledger valid only inside an Update callback. Holding
// it outside the callback is a bug.
type Tx struct {
	l *Ledger
}

// Update runs fn under the ledger lock. Reads and writes made through the
// Tx are atomic with respect to any other Update.
func (l *Ledger) Update(fn func(tx *Tx)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(&Tx{l: l})
}

func (tx *Tx) Cash() float64       { return tx.l.cash }
func (tx *Tx) TotalValue() float64 { return tx.l.totalValue }

// Position returns a copy of the open position for symbol, if any.
func (tx *Tx) Position(symbol string) (types.Position, bool) {
	p, ok := tx.l.positions[symbol]
	if !ok {
		return types.Position{}, false
	}
	return *p, true
}

func (tx *Tx) Metrics() types.Metrics { return tx.l.metrics }

// Buy converts amount of cash into shares at price, blending the cost basis
// into any existing position.
func (tx *Tx) Buy(symbol string, amount, price, confidence float64, reason string) types.TradeRecord {
	l := tx.l
	shares := amount / price

	pos, ok := l.positions[symbol]
	if !ok {
		pos = &types.Position{}
		l.positions[symbol] = pos
	}
	totalShares := pos.Shares + shares
	pos.AvgPrice = (pos.Shares*pos.AvgPrice + shares*price) / totalShares
	pos.Shares = totalShares
	pos.Value = pos.Shares * price

	l.cash -= amount
	return l.record(symbol, types.ActionBuy, amount, price, confidence, reason, 0, false)
}

// Sell liquidates up to amount worth of the position at price. The sale is
// clamped to the shares actually held; the position is removed once empty.
// Returns the trade record and the realized profit on the sold shares.
func (tx *Tx) Sell(symbol string, amount, price, confidence float64, reason string) (types.TradeRecord, float64) {
	l := tx.l
	pos := l.positions[symbol]

	shares := amount / price
	if shares > pos.Shares {
		shares = pos.Shares
	}
	proceeds := shares * price
	realized := proceeds - shares*pos.AvgPrice

	pos.Shares -= shares
	if pos.Shares <= 0 {
		delete(l.positions, symbol)
	} else {
		pos.Value = pos.Shares * price
	}

	l.cash += proceeds
	l.metrics.TotalProfit += realized
	if realized > 0 {
		l.metrics.ProfitableTrades++
	}
	rec := l.record(symbol, types.ActionSell, proceeds, price, confidence, reason, realized, true)
	return rec, realized
}

// record appends the trade, recomputes total value from scratch and updates
// the derived risk metrics. Caller holds the lock.
func (l *Ledger) record(symbol, action string, amount, price, confidence float64, reason string, realized float64, sold bool) types.TradeRecord {
	rec := types.TradeRecord{
		Ts:         time.Now().Unix(),
		Symbol:     symbol,
		Action:     action,
		Amount:     amount,
		Price:      price,
		Confidence: confidence,
		Reason:     reason,
	}
	l.trades = append(l.trades, rec)
	l.metrics.TotalTrades++

	l.totalValue = l.cash
	for _, p := range l.positions {
		l.totalValue += p.Value
	}
	l.values = append(l.values, l.totalValue)
	l.metrics.SharpeRatio = sharpe(l.values)
	l.metrics.MaxDrawdown = maxDrawdown(l.values)
	return rec
}

// Snapshot returns a deep copy of the ledger state.
func (l *Ledger) Snapshot() types.PortfolioSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	positions := make(map[string]types.Position, len(l.positions))
	for sym, p := range l.positions {
		positions[sym] = *p
	}
	trades := make([]types.TradeRecord, len(l.trades))
	copy(trades, l.trades)

	return types.PortfolioSnapshot{
		Cash:       l.cash,
		Positions:  positions,
		TotalValue: l.totalValue,
		Trades:     trades,
	}
}

func (l *Ledger) Metrics() types.Metrics {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.metrics
}

func (l *Ledger) TotalValue() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalValue
}

// sharpe is the mean over population stddev of the simple returns of the
// value series. Zero until there are at least two points or any variance.
func sharpe(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	if variance == 0 {
		return 0
	}
	return mean / math.Sqrt(variance)
}

// maxDrawdown is the largest peak-to-trough fraction of the value series.
func maxDrawdown(values []float64) float64 {
	peak := 0.0
	worst := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}
