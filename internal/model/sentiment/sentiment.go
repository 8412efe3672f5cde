package sentiment

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

const (
	defaultSearchURL = "https://finance.yahoo.com/quote/%s/news"
	maxHeadlines     = 25
	buyThreshold     = 0.15
	sellThreshold    = -0.15
	cacheTTL         = 5 * time.Minute
)

var positiveWords = map[string]struct{}{
	"surge": {}, "rally": {}, "gain": {}, "gains": {}, "soar": {}, "soars": {},
	"jump": {}, "jumps": {}, "rise": {}, "rises": {}, "bullish": {}, "upgrade": {},
	"upgraded": {}, "beat": {}, "beats": {}, "record": {}, "strong": {}, "growth": {},
	"profit": {}, "outperform": {}, "buy": {}, "high": {}, "rebound": {}, "recovery": {},
}

var negativeWords = map[string]struct{}{
	"plunge": {}, "plunges": {}, "crash": {}, "crashes": {}, "fall": {}, "falls": {},
	"drop": {}, "drops": {}, "slump": {}, "slumps": {}, "bearish": {}, "downgrade": {},
	"downgraded": {}, "miss": {}, "misses": {}, "weak": {}, "loss": {}, "losses": {},
	"lawsuit": {}, "probe": {}, "underperform": {}, "sell": {}, "low": {}, "fears": {},
	"warning": {}, "recall": {}, "layoffs": {},
}

// Model turns scraped news headlines into a trade signal. Headlines are
// scored against a small finance lexicon; the mean score maps to buy, sell
// or hold with confidence proportional to its magnitude.
type Model struct {
	searchURL string

	mu      sync.Mutex
	cache   map[string]cachedScore
	lastErr error
}

type cachedScore struct {
	score   float64
	fetched time.Time
}

var _ interfaces.Predictor = (*Model)(nil)

func New() *Model {
	return &Model{
		searchURL: defaultSearchURL,
		cache:     make(map[string]cachedScore),
	}
}

func (m *Model) Predict(ctx context.Context, state types.MarketState) (types.Prediction, error) {
	score, err := m.scoreSymbol(ctx, state.Symbol)
	if err != nil {
		return types.Prediction{}, err
	}

	action := types.ActionHold
	switch {
	case score > buyThreshold:
		action = types.ActionBuy
	case score < sellThreshold:
		action = types.ActionSell
	}

	confidence := 0.5 + min(0.45, abs(score)/2)
	if action == types.ActionHold {
		confidence = 0.5
	}

	return types.Prediction{
		Action:         action,
		Confidence:     confidence,
		PredictedPrice: state.Price,
		Ts:             time.Now().Unix(),
	}, nil
}

// Train is a no-op. The lexicon is static and headlines are fetched live.
func (m *Model) Train(ctx context.Context, history []types.MarketState) error {
	return nil
}

func (m *Model) Update(ctx context.Context, fb types.Feedback) error {
	return nil
}

// scoreSymbol returns the mean headline sentiment in [-1, 1], serving a
// cached value when a fresh scrape is not due yet.
func (m *Model) scoreSymbol(ctx context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	if c, ok := m.cache[symbol]; ok && time.Since(c.fetched) < cacheTTL {
		m.mu.Unlock()
		return c.score, nil
	}
	m.mu.Unlock()

	headlines, err := m.fetchHeadlines(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if len(headlines) == 0 {
		logger.Warn(ctx, "No headlines found, scoring neutral", "symbol", symbol)
		return 0, nil
	}

	total := 0.0
	for _, h := range headlines {
		total += scoreHeadline(h)
	}
	score := total / float64(len(headlines))

	m.mu.Lock()
	m.cache[symbol] = cachedScore{score: score, fetched: time.Now()}
	m.mu.Unlock()
	return score, nil
}

func (m *Model) fetchHeadlines(ctx context.Context, symbol string) ([]string, error) {
	var headlines []string

	c := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"),
	)
	c.SetRequestTimeout(15 * time.Second)

	c.OnHTML("h3", func(e *colly.HTMLElement) {
		if len(headlines) >= maxHeadlines {
			return
		}
		text := cleanHeadline(e.DOM)
		if text != "" {
			headlines = append(headlines, text)
		}
	})

	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
		default:
		}
	})

	url := fmt.Sprintf(m.searchURL, symbol)
	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("fetching headlines for %s: %w", symbol, err)
	}
	c.Wait()
	return headlines, nil
}

func cleanHeadline(sel *goquery.Selection) string {
	text := strings.TrimSpace(sel.Text())
	if len(text) < 15 {
		return ""
	}
	return text
}

// scoreHeadline counts lexicon hits and normalizes to [-1, 1].
func scoreHeadline(headline string) float64 {
	words := strings.Fields(strings.ToLower(headline))
	if len(words) == 0 {
		return 0
	}
	hits := 0.0
	for _, w := range words {
		w = strings.Trim(w, ".,:;!?'\"()")
		if _, ok := positiveWords[w]; ok {
			hits++
		}
		if _, ok := negativeWords[w]; ok {
			hits--
		}
	}
	score := hits / 3.0
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
