package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"TickerCompare/internal/model"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the comparison journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets `history` read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS comparisons (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			symbol_a   TEXT NOT NULL,
			symbol_b   TEXT NOT NULL,
			status_a   TEXT,
			status_b   TEXT,
			outcome    TEXT NOT NULL,
			message    TEXT,
			points     INTEGER,
			final_a    REAL,
			final_b    REAL,
			change_a   REAL,
			change_b   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comparisons_ts ON comparisons(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullable(v float64, ok bool) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: ok} }

// RecordComparison stores c. Prompt outcomes ran nothing and are skipped.
func (r *SQLiteRecorder) RecordComparison(c *model.Comparison) error {
	if c.Outcome == model.OutcomePrompt {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e := EntryFrom(c)
	_, err := r.db.Exec(`INSERT INTO comparisons
		(id, timestamp, symbol_a, symbol_b, status_a, status_b, outcome, message, points,
		 final_a, final_b, change_a, change_b)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.NewString(), e.CreatedAt.UnixMilli(), e.SymbolA, e.SymbolB,
		string(e.StatusA), string(e.StatusB), string(e.Outcome), e.Message, e.Points,
		nullable(e.FinalA, e.Ready), nullable(e.FinalB, e.Ready),
		nullable(e.ChangeA, e.Ready), nullable(e.ChangeB, e.Ready),
	)
	return err
}

// Recent returns up to limit entries, newest first.
func (r *SQLiteRecorder) Recent(limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, symbol_a, symbol_b, status_a, status_b, outcome,
		message, points, final_a, final_b, change_a, change_b
		FROM comparisons ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query comparisons: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                             Entry
			ts                            int64
			statusA, statusB, outcome     string
			finalA, finalB, changeA, chgB sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &ts, &e.SymbolA, &e.SymbolB, &statusA, &statusB, &outcome,
			&e.Message, &e.Points, &finalA, &finalB, &changeA, &chgB); err != nil {
			return nil, fmt.Errorf("scan comparison: %w", err)
		}
		e.CreatedAt = time.UnixMilli(ts)
		e.StatusA, e.StatusB, e.Outcome = model.Status(statusA), model.Status(statusB), model.Outcome(outcome)
		e.Ready = finalA.Valid
		e.FinalA, e.FinalB, e.ChangeA, e.ChangeB = finalA.Float64, finalB.Float64, changeA.Float64, chgB.Float64
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
