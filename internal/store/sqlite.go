// Package store persists sessions and their rounds to SQLite so runs can
// be inspected and compared after the fact.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lox/blackjacklab/internal/game"
)

// DB wraps the SQLite handle with the blackjacklab schema applied.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for an ephemeral database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err = migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &DB{db}, nil
}

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id         TEXT PRIMARY KEY,
		strategy   TEXT NOT NULL,
		bankroll   REAL NOT NULL,
		base_bet   INTEGER NOT NULL,
		seed       INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS rounds (
		id         TEXT PRIMARY KEY,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		seq        INTEGER NOT NULL,
		wager      INTEGER NOT NULL,
		net        REAL NOT NULL,
		bankroll   REAL NOT NULL,
		detail     TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_rounds_session ON rounds(session_id, seq);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateSession registers a session before its rounds are recorded.
func (db *DB) CreateSession(ctx context.Context, id, strategy string, bankroll float64, baseBet int, seed int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO sessions (id, strategy, bankroll, base_bet, seed) VALUES (?, ?, ?, ?, ?)`,
		id, strategy, bankroll, baseBet, seed)
	if err != nil {
		return fmt.Errorf("failed to create session %s: %w", id, err)
	}
	return nil
}

// RecordRound appends a settled round. The full result is stored as JSON
// in the detail column; the queryable columns carry the aggregates.
func (db *DB) RecordRound(ctx context.Context, sessionID string, seq int, res *game.Result, bankroll float64) error {
	detail, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode round %s: %w", res.RoundID, err)
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO rounds (id, session_id, seq, wager, net, bankroll, detail) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.RoundID, sessionID, seq, res.Wager, res.Net, bankroll, string(detail))
	if err != nil {
		return fmt.Errorf("failed to record round %s: %w", res.RoundID, err)
	}
	return nil
}

// Round is a persisted round with its aggregates and decoded result.
type Round struct {
	ID        string
	SessionID string
	Seq       int
	Wager     int
	Net       float64
	Bankroll  float64
	Result    *game.Result
}

// SessionRounds returns a session's rounds in play order.
func (db *DB) SessionRounds(ctx context.Context, sessionID string) ([]Round, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, session_id, seq, wager, net, bankroll, detail FROM rounds WHERE session_id = ? ORDER BY seq`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for %s: %w", sessionID, err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		var r Round
		var detail string
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Seq, &r.Wager, &r.Net, &r.Bankroll, &detail); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(detail), &r.Result); err != nil {
			return nil, fmt.Errorf("failed to decode round %s: %w", r.ID, err)
		}
		rounds = append(rounds, r)
	}
	return rounds, rows.Err()
}

// SessionSummary aggregates a stored session for reporting.
type SessionSummary struct {
	ID        string
	Strategy  string
	Bankroll  float64
	BaseBet   int
	Seed      int64
	CreatedAt time.Time
	Rounds    int
	Net       float64
	Final     float64
}

// SessionSummaries lists stored sessions, most recent first.
func (db *DB) SessionSummaries(ctx context.Context) ([]SessionSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT s.id, s.strategy, s.bankroll, s.base_bet, s.seed, s.created_at,
		       COUNT(r.id), COALESCE(SUM(r.net), 0),
		       COALESCE((SELECT bankroll FROM rounds WHERE session_id = s.id ORDER BY seq DESC LIMIT 1), s.bankroll)
		FROM sessions s
		LEFT JOIN rounds r ON r.session_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.ID, &s.Strategy, &s.Bankroll, &s.BaseBet, &s.Seed,
			&s.CreatedAt, &s.Rounds, &s.Net, &s.Final); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// SessionSink adapts the store to the session's Sink interface, numbering
// rounds as they arrive.
type SessionSink struct {
	db        *DB
	sessionID string
	seq       int
}

// NewSessionSink creates a sink that records rounds under the session ID.
func NewSessionSink(db *DB, sessionID string) *SessionSink {
	return &SessionSink{db: db, sessionID: sessionID}
}

// RecordRound persists one settled round.
func (s *SessionSink) RecordRound(ctx context.Context, res *game.Result, bankroll float64) error {
	s.seq++
	return s.db.RecordRound(ctx, s.sessionID, s.seq, res, bankroll)
}
