package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/AbhayRathi/TinyWindow/internal/interfaces"
	"github.com/AbhayRathi/TinyWindow/internal/logger"
	"github.com/AbhayRathi/TinyWindow/internal/types"
)

const defaultMaxPerSymbol = 1000

// Store persists market snapshots per symbol in SQLite. Payloads go through
// the sealer, so rows are opaque when encryption is on.
type Store struct {
	db     *sql.DB
	sealer interfaces.Sealer
	max    int
}

// Open creates or opens the snapshot database at path. maxPerSymbol caps
// retained rows per symbol; older rows are pruned on append.
func Open(path string, sealer interfaces.Sealer, maxPerSymbol int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: set pragma %s: %w", p, err)
		}
	}

	const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	symbol  TEXT    NOT NULL,
	source  TEXT    NOT NULL,
	ts      INTEGER NOT NULL,
	payload BLOB    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON snapshots(symbol, ts);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: create schema: %w", err)
	}

	if maxPerSymbol <= 0 {
		maxPerSymbol = defaultMaxPerSymbol
	}
	if sealer == nil {
		return nil, fmt.Errorf("history: sealer is required")
	}
	return &Store{db: db, sealer: sealer, max: maxPerSymbol}, nil
}

// Append stores one snapshot and prunes rows beyond the per-symbol cap.
func (s *Store) Append(ctx context.Context, state types.MarketState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("history: marshal snapshot: %w", err)
	}
	payload, err := s.sealer.Seal(raw)
	if err != nil {
		return fmt.Errorf("history: seal snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots(symbol, source, ts, payload) VALUES(?, ?, ?, ?)`,
		state.Symbol, state.Source, state.Ts, payload)
	if err != nil {
		return fmt.Errorf("history: insert snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM snapshots WHERE symbol = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE symbol = ? ORDER BY id DESC LIMIT ?
		)`, state.Symbol, state.Symbol, s.max)
	if err != nil {
		return fmt.Errorf("history: prune snapshots: %w", err)
	}
	return nil
}

// Load returns up to limit snapshots for symbol in ascending time order.
// Rows that fail to open or decode are skipped, not fatal.
func (s *Store) Load(ctx context.Context, symbol string, limit int) ([]types.MarketState, error) {
	if limit <= 0 {
		limit = s.max
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM snapshots WHERE symbol = ? ORDER BY id DESC LIMIT ?`,
		symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("history: query snapshots: %w", err)
	}
	defer rows.Close()

	var out []types.MarketState
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("history: scan snapshot: %w", err)
		}
		raw, err := s.sealer.Open(payload)
		if err != nil {
			logger.Warn(ctx, "Skipping unreadable snapshot", "symbol", symbol, "error", err)
			continue
		}
		var state types.MarketState
		if err := json.Unmarshal(raw, &state); err != nil {
			logger.Warn(ctx, "Skipping undecodable snapshot", "symbol", symbol, "error", err)
			continue
		}
		out = append(out, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate snapshots: %w", err)
	}

	// Newest-first from the query, ascending for callers.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
