// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package catalog keeps snapshots of scraped channel lists so databases can
// be realigned offline.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ManuGH/lamesync/internal/persistence/sqlite"
	"github.com/ManuGH/lamesync/internal/scrape"
)

const schemaVersion = 1

// ErrNoSnapshot is returned when the catalog holds no runs.
var ErrNoSnapshot = errors.New("catalog: no snapshot stored")

// Run describes one stored snapshot.
type Run struct {
	ID        string
	StartedAt time.Time
	Source    string
	Channels  int
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	DB *sql.DB
}

// Open opens or creates the catalog at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sqlite.Open(ctx, path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	s := &Store{DB: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: migration failed: %w", err)
	}
	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	current, err := sqlite.UserVersion(ctx, s.DB)
	if err != nil {
		return err
	}
	if current >= schemaVersion {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at_ms INTEGER NOT NULL,
		source TEXT NOT NULL,
		channel_count INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at_ms);

	CREATE TABLE IF NOT EXISTS channels (
		run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		info_url TEXT NOT NULL,
		freq TEXT NOT NULL,
		transponder INTEGER NOT NULL,
		sat INTEGER NOT NULL,
		modulation TEXT NOT NULL,
		symbol_rate INTEGER NOT NULL,
		icon TEXT NOT NULL,
		description TEXT NOT NULL,
		local_icon TEXT NOT NULL,
		PRIMARY KEY (run_id, position)
	);
	`
	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

// Save stores channels, in order, as the snapshot for run.
func (s *Store) Save(ctx context.Context, run Run, channels []scrape.Channel) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at_ms, source, channel_count) VALUES (?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixMilli(), run.Source, len(channels),
	); err != nil {
		return fmt.Errorf("catalog: insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO channels (run_id, position, name, info_url, freq, transponder, sat,
		modulation, symbol_rate, icon, description, local_icon)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, ch := range channels {
		if _, err := stmt.ExecContext(ctx, run.ID, i, ch.Name, ch.InfoURL, ch.Freq, ch.Transponder,
			ch.Sat, ch.Modulation, ch.SymbolRate, ch.Icon, ch.Description, ch.LocalIcon); err != nil {
			return fmt.Errorf("catalog: insert channel %q: %w", ch.Name, err)
		}
	}
	return tx.Commit()
}

// Latest returns the most recent run and its channels in table order.
func (s *Store) Latest(ctx context.Context) (Run, []scrape.Channel, error) {
	var run Run
	var startedMS int64
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, started_at_ms, source, channel_count FROM runs ORDER BY started_at_ms DESC, rowid DESC LIMIT 1`,
	).Scan(&run.ID, &startedMS, &run.Source, &run.Channels)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, nil, ErrNoSnapshot
	}
	if err != nil {
		return Run{}, nil, fmt.Errorf("catalog: latest run: %w", err)
	}
	run.StartedAt = time.UnixMilli(startedMS)

	channels, err := s.channels(ctx, run.ID)
	if err != nil {
		return Run{}, nil, err
	}
	return run, channels, nil
}

func (s *Store) channels(ctx context.Context, runID string) ([]scrape.Channel, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT name, info_url, freq, transponder, sat, modulation, symbol_rate, icon, description, local_icon
	FROM channels WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("catalog: query channels: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []scrape.Channel
	for rows.Next() {
		var ch scrape.Channel
		if err := rows.Scan(&ch.Name, &ch.InfoURL, &ch.Freq, &ch.Transponder, &ch.Sat,
			&ch.Modulation, &ch.SymbolRate, &ch.Icon, &ch.Description, &ch.LocalIcon); err != nil {
			return nil, fmt.Errorf("catalog: scan channel: %w", err)
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// Runs lists up to limit runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, started_at_ms, source, channel_count FROM runs ORDER BY started_at_ms DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("catalog: query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Run
	for rows.Next() {
		var r Run
		var ms int64
		if err := rows.Scan(&r.ID, &ms, &r.Source, &r.Channels); err != nil {
			return nil, fmt.Errorf("catalog: scan run: %w", err)
		}
		r.StartedAt = time.UnixMilli(ms)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Prune deletes all but the newest keep runs and returns how many went.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.DB.ExecContext(ctx, `
	DELETE FROM runs WHERE id NOT IN (
		SELECT id FROM runs ORDER BY started_at_ms DESC, rowid DESC LIMIT ?
	)`, keep)
	if err != nil {
		return 0, fmt.Errorf("catalog: prune: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
