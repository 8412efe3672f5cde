package feed

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/api"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=1d"

// Yahoo fetches quotes from the Yahoo Finance chart API.
type Yahoo struct {
	client *api.Client
}

var _ Source = (*Yahoo)(nil)

func NewYahoo() *Yahoo {
	return &Yahoo{client: api.NewClient(api.WithTimeout(15 * time.Second))}
}

func (y *Yahoo) Name() string { return "yahoo_finance" }

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				RegularMarketVolume  float64 `json:"regularMarketVolume"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				RegularMarketTime    int64   `json:"regularMarketTime"`
			} `json:"meta"`
		} `json:"result"`
		Error any `json:"error"`
	} `json:"chart"`
}

func (y *Yahoo) Fetch(ctx context.Context, symbol string) (types.MarketState, error) {
	u := fmt.Sprintf(yahooChartURL, url.PathEscape(symbol))
	resp, err := y.client.GET(ctx, u, api.YahooFinanceHeaders())
	if err != nil {
		return types.MarketState{}, fmt.Errorf("yahoo: fetch %s: %w", symbol, err)
	}

	var parsed yahooChartResponse
	if err := resp.ParseJSON(&parsed); err != nil {
		return types.MarketState{}, fmt.Errorf("yahoo: decode %s: %w", symbol, err)
	}
	if len(parsed.Chart.Result) == 0 {
		return types.MarketState{}, fmt.Errorf("yahoo: no chart result for %s", symbol)
	}

	meta := parsed.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return types.MarketState{}, fmt.Errorf("yahoo: no market price for %s", symbol)
	}

	ts := meta.RegularMarketTime
	if ts == 0 {
		ts = time.Now().Unix()
	}
	return types.MarketState{
		Symbol: symbol,
		Source: y.Name(),
		Price:  meta.RegularMarketPrice,
		Volume: meta.RegularMarketVolume,
		Open:   meta.ChartPreviousClose,
		High:   meta.RegularMarketDayHigh,
		Low:    meta.RegularMarketDayLow,
		Close:  meta.RegularMarketPrice,
		Ts:     ts,
	}, nil
}
