package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/AbhayRathi/TinyWindow/internal/types"
)

var mu sync.Mutex

// Entry is one executed trade written to the daily JSONL file.
type Entry struct {
	Time       string  `json:"time"`
	Symbol     string  `json:"symbol"`
	Action     string  `json:"action"`
	Amount     float64 `json:"amount"`
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Profit     float64 `json:"profit,omitempty"`
}

// DecisionEntry records every decision, including the holds that never
// reach the ledger.
type DecisionEntry struct {
	Time       string  `json:"time"`
	Symbol     string  `json:"symbol"`
	Action     string  `json:"action"`
	Amount     float64 `json:"amount"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

func logDir() string {
	if v := os.Getenv("TINYWINDOW_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.UTC().Format("2006-01-02")+".txt")
}

func decisionsFilepath(t time.Time) string {
	return filepath.Join(logDir(), "decisions", t.UTC().Format("2006-01-02")+".txt")
}

// AppendTrade writes an executed trade record to the daily file.
func AppendTrade(rec types.TradeRecord, profit float64) error {
	now := time.Now()
	e := Entry{
		Time:       now.UTC().Format("2006-01-02 15:04:05"),
		Symbol:     rec.Symbol,
		Action:     rec.Action,
		Amount:     rec.Amount,
		Price:      rec.Price,
		Confidence: rec.Confidence,
		Reason:     rec.Reason,
		Profit:     profit,
	}
	return appendJSON(dailyFilepath(now), e)
}

// AppendDecision writes a decision record, executed or not.
func AppendDecision(symbol string, d types.Decision) error {
	now := time.Now()
	e := DecisionEntry{
		Time:       now.UTC().Format("2006-01-02 15:04:05"),
		Symbol:     symbol,
		Action:     d.Action,
		Amount:     d.Amount,
		Confidence: d.Confidence,
		Reason:     d.Reason,
	}
	return appendJSON(decisionsFilepath(now), e)
}

func appendJSON(path string, v any) error {
	mu.Lock()
	defer mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips log files older than retentionDays and removes the
// originals. retentionDays <= 0 disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
