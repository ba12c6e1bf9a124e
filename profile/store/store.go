// Package store persists applicant profiles and run history in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/jobfill/autofill/field"
	"github.com/hazyhaar/jobfill/dbopen"
	"github.com/hazyhaar/jobfill/profile"
)

// DefaultProfileID is the profile used when none is named.
const DefaultProfileID = "default"

// ErrNotFound is returned when a profile does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the jobfill database handle.
type Store struct {
	DB *sql.DB
}

// Open opens (or creates) the database at path with the jobfill schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	all := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)

	db, err := dbopen.Open(path, all...)
	if err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// New wraps an already open database and applies the schema.
func New(db *sql.DB) (*Store, error) {
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("store: schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// SaveProfile inserts or replaces the profile stored under id.
func (s *Store) SaveProfile(ctx context.Context, id string, p profile.Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: marshal profile: %w", err)
	}
	return dbopen.RunTx(ctx, s.DB, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (id, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
			id, string(data), time.Now().UnixMilli())
		if err != nil {
			return fmt.Errorf("store: save profile: %w", err)
		}
		return nil
	})
}

// LoadProfile returns the profile stored under id, or ErrNotFound.
func (s *Store) LoadProfile(ctx context.Context, id string) (profile.Profile, error) {
	var data string
	err := s.DB.QueryRowContext(ctx, `SELECT data FROM profiles WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("store: profile %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load profile: %w", err)
	}
	return profile.Parse([]byte(data))
}

// SaveRun persists a run report. Its signature matches a report callback
// so the store can sit behind a sink.
func (s *Store) SaveRun(ctx context.Context, rep field.Report) error {
	results, err := json.Marshal(rep.Results)
	if err != nil {
		return fmt.Errorf("store: marshal results: %w", err)
	}
	var finished int64
	if !rep.FinishedAt.IsZero() {
		finished = rep.FinishedAt.UnixMilli()
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(id, url, platform, phase, total, filled, unresolved, failed, success_rate, error, results, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.RunID, rep.URL, rep.Platform, string(rep.Phase), rep.Total, rep.Filled, rep.Unresolved,
		rep.Failed, rep.SuccessRate, rep.Error, string(results), rep.StartedAt.UnixMilli(), finished)
	if err != nil {
		return fmt.Errorf("store: save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent reports first. limit <= 0 means 50.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]field.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, url, platform, phase, total, filled, unresolved, failed, success_rate, error, results, started_at, finished_at
		FROM runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []field.Report
	for rows.Next() {
		var (
			r                 field.Report
			phase, results    string
			started, finished int64
		)
		if err := rows.Scan(&r.RunID, &r.URL, &r.Platform, &phase, &r.Total, &r.Filled, &r.Unresolved,
			&r.Failed, &r.SuccessRate, &r.Error, &results, &started, &finished); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		r.Phase = field.Phase(phase)
		r.StartedAt = time.UnixMilli(started)
		if finished > 0 {
			r.FinishedAt = time.UnixMilli(finished)
		}
		if err := json.Unmarshal([]byte(results), &r.Results); err != nil {
			return nil, fmt.Errorf("store: decode results %s: %w", r.RunID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
