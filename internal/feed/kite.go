package feed

import (
	"context"
	"fmt"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

// Kite serves last-traded prices through the Zerodha Kite Connect API.
type Kite struct {
	kc       *kiteconnect.Client
	exchange string
}

var _ Source = (*Kite)(nil)

func NewKite(apiKey, accessToken, exchange string) *Kite {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	if exchange == "" {
		exchange = "NSE"
	}
	return &Kite{kc: kc, exchange: exchange}
}

func (k *Kite) Name() string { return "kite" }

func (k *Kite) Fetch(ctx context.Context, symbol string) (types.MarketState, error) {
	inst := fmt.Sprintf("%s:%s", k.exchange, symbol)
	quote, err := k.kc.GetLTP(inst)
	if err != nil {
		return types.MarketState{}, fmt.Errorf("kite: ltp %s: %w", inst, err)
	}
	ltp, ok := quote[inst]
	if !ok || ltp.LastPrice <= 0 {
		return types.MarketState{}, fmt.Errorf("kite: no quote for %s", inst)
	}
	return types.MarketState{
		Symbol: symbol,
		Source: k.Name(),
		Price:  ltp.LastPrice,
		Close:  ltp.LastPrice,
		Ts:     time.Now().Unix(),
	}, nil
}
