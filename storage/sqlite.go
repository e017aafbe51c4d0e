// Package storage persists enriched events and run summaries to SQLite and
// exports the enriched table for the downstream report generator.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"argus/core"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// Store is the SQLite-backed run history.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.SugaredLogger
}

// Run is one persisted analysis run.
type Run struct {
	ID           string                 `json:"id"`
	StartedAt    time.Time              `json:"started_at"`
	CompletedAt  time.Time              `json:"completed_at"`
	Events       int                    `json:"events"`
	Sessions     int                    `json:"sessions"`
	Unsessioned  int                    `json:"unsessioned"`
	LevelCounts  map[core.RiskLevel]int `json:"level_counts"`
	DetectorHits map[string]int         `json:"detector_hits"`
}

// NewRun creates a Run with a fresh identifier.
func NewRun(startedAt time.Time) *Run {
	return &Run{
		ID:           uuid.New().String(),
		StartedAt:    startedAt,
		LevelCounts:  make(map[core.RiskLevel]int),
		DetectorHits: make(map[string]int),
	}
}

// NewStore opens (creating if needed) the SQLite database at path.
func NewStore(path string, logger *zap.SugaredLogger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; WAL mode allows readers alongside it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, path: path, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL,
			events INTEGER NOT NULL,
			sessions INTEGER NOT NULL,
			unsessioned INTEGER NOT NULL,
			level_counts TEXT NOT NULL,
			detector_hits TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			source TEXT NOT NULL,
			source_index INTEGER NOT NULL,
			user TEXT NOT NULL,
			timestamp TIMESTAMP,
			tcode TEXT,
			table_name TEXT,
			field TEXT,
			change_indicator TEXT,
			old_value TEXT,
			new_value TEXT,
			description TEXT,
			event_code TEXT,
			ticket TEXT,
			session_id TEXT,
			session_key TEXT,
			risk_level TEXT NOT NULL,
			sap_risk_level TEXT,
			risk_description TEXT,
			activity_type TEXT,
			display_but_changed INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, source, source_index)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run_session ON events(run_id, session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run_level ON events(run_id, risk_level)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}

// SaveRun persists a run record and its enriched events in one transaction.
func (s *Store) SaveRun(ctx context.Context, run *Run, events []*core.Event) error {
	levels, err := json.Marshal(run.LevelCounts)
	if err != nil {
		return fmt.Errorf("failed to encode level counts: %w", err)
	}
	hits, err := json.Marshal(run.DetectorHits)
	if err != nil {
		return fmt.Errorf("failed to encode detector hits: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, completed_at, events, sessions, unsessioned, level_counts, detector_hits)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.CompletedAt, run.Events, run.Sessions, run.Unsessioned,
		string(levels), string(hits))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (run_id, source, source_index, user, timestamp, tcode, table_name, field,
			change_indicator, old_value, new_value, description, event_code, ticket,
			session_id, session_key, risk_level, sap_risk_level, risk_description, activity_type,
			display_but_changed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		var ts any
		if e.HasTimestamp() {
			ts = e.Timestamp
		}
		displayButChanged := 0
		if e.DisplayButChanged {
			displayButChanged = 1
		}
		_, err = stmt.ExecContext(ctx,
			run.ID, string(e.Source), e.Index, e.User, ts, e.TCode, e.Table, e.Field,
			string(e.ChangeIndicator), e.OldValue, e.NewValue, e.Description, e.EventCode, e.Ticket,
			e.SessionID, e.SessionKey, e.RiskLevel.String(), string(e.SAPRiskLevel),
			e.RiskDescription, string(e.ActivityType), displayButChanged)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	s.logger.Infow("Run persisted", "run_id", run.ID, "events", len(events))
	return nil
}

// GetRun loads one run record by id.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, completed_at, events, sessions, unsessioned, level_counts, detector_hits
		 FROM runs WHERE id = ?`, id)

	run := &Run{}
	var levels, hits string
	err := row.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.Events, &run.Sessions,
		&run.Unsessioned, &levels, &hits)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if err := json.Unmarshal([]byte(levels), &run.LevelCounts); err != nil {
		return nil, fmt.Errorf("failed to decode level counts: %w", err)
	}
	if err := json.Unmarshal([]byte(hits), &run.DetectorHits); err != nil {
		return nil, fmt.Errorf("failed to decode detector hits: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, completed_at, events, sessions, unsessioned, level_counts, detector_hits
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var levels, hits string
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.Events, &run.Sessions,
			&run.Unsessioned, &levels, &hits); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(levels), &run.LevelCounts); err != nil {
			return nil, fmt.Errorf("failed to decode level counts: %w", err)
		}
		if err := json.Unmarshal([]byte(hits), &run.DetectorHits); err != nil {
			return nil, fmt.Errorf("failed to decode detector hits: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// EventsByLevel returns a run's events at or above the given level, ordered
// by timestamp.
func (s *Store) EventsByLevel(ctx context.Context, runID string, min core.RiskLevel) ([]*core.Event, error) {
	names := make([]any, 0, 4)
	placeholders := ""
	for level := min; level <= core.RiskCritical; level++ {
		if placeholders != "" {
			placeholders += ", "
		}
		placeholders += "?"
		names = append(names, level.String())
	}

	args := append([]any{runID}, names...)
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, source_index, user, timestamp, tcode, table_name, field, change_indicator,
			old_value, new_value, description, event_code, ticket, session_id, session_key,
			risk_level, sap_risk_level, risk_description, activity_type, display_but_changed
		 FROM events WHERE run_id = ? AND risk_level IN (`+placeholders+`)
		 ORDER BY timestamp`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*core.Event
	for rows.Next() {
		e := &core.Event{}
		var source, indicator, level, sapLevel, activity string
		var ts sql.NullTime
		var displayButChanged int
		err := rows.Scan(&source, &e.Index, &e.User, &ts, &e.TCode, &e.Table, &e.Field, &indicator,
			&e.OldValue, &e.NewValue, &e.Description, &e.EventCode, &e.Ticket,
			&e.SessionID, &e.SessionKey, &level, &sapLevel, &e.RiskDescription, &activity,
			&displayButChanged)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Source = core.Source(source)
		e.ChangeIndicator = core.ChangeIndicator(indicator)
		e.RiskLevel = core.ParseRiskLevel(level)
		e.SAPRiskLevel = core.SAPRiskLevel(sapLevel)
		e.ActivityType = core.ActivityType(activity)
		e.DisplayButChanged = displayButChanged == 1
		if ts.Valid {
			e.Timestamp = ts.Time
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
