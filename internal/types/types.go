package types

// Trade actions. Anything else is treated as hold when votes are counted.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// Decision reason codes.
const (
	ReasonLowConfidence = "low_confidence"
	ReasonConsensusBuy  = "consensus_buy"
	ReasonConsensusSell = "consensus_sell"
	ReasonDefault       = "default"
	ReasonExternal      = "external"
)

// MarketState is one observation of a symbol from one data source.
type MarketState struct {
	Symbol string  `json:"symbol"`
	Source string  `json:"source"`
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Ts     int64   `json:"timestamp"`
}

// Prediction is a single agent's view of a symbol. Immutable once returned.
type Prediction struct {
	AgentID        string  `json:"agent_id"`
	ModelKind      string  `json:"model_kind"`
	Action         string  `json:"action"`
	Confidence     float64 `json:"confidence"`
	PredictedPrice float64 `json:"predicted_price,omitempty"`
	Ts             int64   `json:"timestamp"`
}

// Consensus is the reduction of many predictions into one signal.
type Consensus struct {
	Action     string             `json:"action"`
	Confidence float64            `json:"confidence"`
	Votes      map[string]float64 `json:"votes"`
}

// Decision is a bounded trade the optimizer intends to make. Amount is in
// currency units, never negative.
type Decision struct {
	Action     string  `json:"action"`
	Amount     float64 `json:"amount"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Position is an open holding. It exists only while Shares > 0.
type Position struct {
	Shares   float64 `json:"shares"`
	AvgPrice float64 `json:"avg_price"`
	Value    float64 `json:"value"`
}

// TradeRecord is an immutable ledger log entry.
type TradeRecord struct {
	Ts         int64   `json:"timestamp"`
	Symbol     string  `json:"symbol"`
	Action     string  `json:"action"`
	Amount     float64 `json:"amount"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// PortfolioSnapshot is a deep copy of ledger state at one instant.
type PortfolioSnapshot struct {
	Cash       float64             `json:"cash"`
	Positions  map[string]Position `json:"positions"`
	TotalValue float64             `json:"total_value"`
	Trades     []TradeRecord       `json:"trades"`
}

// Metrics tracks realized performance of the ledger.
type Metrics struct {
	TotalTrades      int     `json:"total_trades"`
	ProfitableTrades int     `json:"profitable_trades"`
	TotalProfit      float64 `json:"total_profit"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
}

// TradeResult is the structured outcome of an execution attempt. Validation
// failures come back with Success=false and Error set; they are not Go errors.
type TradeResult struct {
	Success bool    `json:"success"`
	Symbol  string  `json:"symbol,omitempty"`
	Action  string  `json:"action,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
	Price   float64 `json:"price,omitempty"`
	Ts      int64   `json:"timestamp,omitempty"`
	Profit  float64 `json:"profit,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// Feedback carries a realized reward back to the agents.
type Feedback struct {
	Symbol string      `json:"symbol"`
	Action string      `json:"action"`
	Reward float64     `json:"reward"`
	Result TradeResult `json:"result"`
}

// PredictionReport is the per-symbol fan-out result exposed to callers.
type PredictionReport struct {
	Symbol      string       `json:"symbol"`
	Predictions []Prediction `json:"predictions"`
	Consensus   string       `json:"consensus"`
	Confidence  float64      `json:"confidence"`
	Ts          int64        `json:"timestamp"`
}

// AgentStatus describes one agent.
type AgentStatus struct {
	ModelKind string `json:"model_kind"`
	Trained   bool   `json:"trained"`
}

// PoolStatus describes the agent pool.
type PoolStatus struct {
	Running         bool                   `json:"running"`
	NumAgents       int                    `json:"num_agents"`
	ModelKinds      []string               `json:"model_kinds"`
	RLEnabled       bool                   `json:"rl_enabled"`
	TrainingSeconds int                    `json:"training_interval"`
	Agents          map[string]AgentStatus `json:"agents"`
}

// OptimizerStatus describes the optimization loop and its ledger.
type OptimizerStatus struct {
	Running         bool    `json:"running"`
	Enabled         bool    `json:"enabled"`
	Algorithm       string  `json:"algorithm"`
	RiskTolerance   float64 `json:"risk_tolerance"`
	MaxPositionSize float64 `json:"max_position_size"`
	PortfolioValue  float64 `json:"portfolio_value"`
	Metrics         Metrics `json:"metrics"`
}

// IngestionStatus describes the data ingestion loop.
type IngestionStatus struct {
	Running       bool     `json:"running"`
	Sources       []string `json:"sources"`
	Symbols       []string `json:"symbols"`
	CachedItems   int      `json:"cached_items"`
	UpdateSeconds int      `json:"update_interval"`
}

// SealStatus describes the encryption layer.
type SealStatus struct {
	Algorithm string `json:"algorithm"`
	KeySize   int    `json:"key_size"`
	Enabled   bool   `json:"enabled"`
}

// EngineStatus is the aggregate status of every component.
type EngineStatus struct {
	Running    bool            `json:"running"`
	Ts         int64           `json:"timestamp"`
	Ingestion  IngestionStatus `json:"data_ingestion"`
	Agents     PoolStatus      `json:"market_agents"`
	Optimizer  OptimizerStatus `json:"optimizer"`
	Encryption SealStatus      `json:"encryption"`
}
