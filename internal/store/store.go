// Copyright (c) 2025 CloudyIntel Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package store persists design sessions and workflow state checkpoints.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"cloudy-intel/internal/state"
)

// Session lifecycle states.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Session is one recorded design run.
type Session struct {
	SessionID     string
	UserProblem   string
	CloudProvider string
	Status        string
	CreatedAt     time.Time
}

// SQLiteStore persists sessions and checkpoints using modernc.org/sqlite
// (pure Go).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent reads.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Init creates the schema tables.
func (s *SQLiteStore) Init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id     TEXT PRIMARY KEY,
		user_problem   TEXT NOT NULL,
		cloud_provider TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'running',
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS checkpoints (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id      TEXT NOT NULL,
		phase           TEXT NOT NULL,
		iteration_count INTEGER NOT NULL DEFAULT 0,
		state           TEXT NOT NULL,
		created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_checkpoints_session ON checkpoints(session_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession records a new design run. Re-recording an existing session is
// a no-op so checkpoint writers can call it without coordination.
func (s *SQLiteStore) CreateSession(ctx context.Context, sessionID, userProblem, cloudProvider string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_problem, cloud_provider, status)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(session_id) DO NOTHING`,
		sessionID, userProblem, cloudProvider, StatusRunning,
	)
	return err
}

// SetSessionStatus updates a session's lifecycle status.
func (s *SQLiteStore) SetSessionStatus(ctx context.Context, sessionID, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ? WHERE session_id = ?`,
		status, sessionID,
	)
	return err
}

// SaveCheckpoint appends a snapshot of the workflow state.
func (s *SQLiteStore) SaveCheckpoint(ctx context.Context, ws state.WorkflowState) error {
	blob, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("failed to encode workflow state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (session_id, phase, iteration_count, state)
		 VALUES (?, ?, ?, ?)`,
		ws.SessionID, string(ws.CurrentPhase), ws.IterationCount, string(blob),
	)
	return err
}

// LatestCheckpoint returns the most recent snapshot for a session.
func (s *SQLiteStore) LatestCheckpoint(ctx context.Context, sessionID string) (state.WorkflowState, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT state FROM checkpoints WHERE session_id = ? ORDER BY id DESC LIMIT 1`,
		sessionID,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return state.WorkflowState{}, fmt.Errorf("no checkpoints for session %s", sessionID)
	}
	if err != nil {
		return state.WorkflowState{}, err
	}

	var ws state.WorkflowState
	if err := json.Unmarshal([]byte(blob), &ws); err != nil {
		return state.WorkflowState{}, fmt.Errorf("failed to decode workflow state: %w", err)
	}
	return ws, nil
}

// CheckpointCount returns how many snapshots a session has accumulated.
func (s *SQLiteStore) CheckpointCount(ctx context.Context, sessionID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checkpoints WHERE session_id = ?`,
		sessionID,
	).Scan(&count)
	return count, err
}

// ListSessions returns recent sessions, newest first.
func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, user_problem, cloud_provider, status, created_at
		 FROM sessions ORDER BY created_at DESC, session_id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.SessionID, &sess.UserProblem, &sess.CloudProvider, &sess.Status, &sess.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}
