package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Run identifies one compile run. Seq is a logical clock: each run gets
// the next value after every run already in the store.
type Run struct {
	ID  string
	Seq int64
}

// RunIDGenerator produces run IDs.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-ordered UUIDv7 run IDs.
type UUIDv7Generator struct{}

// Generate returns a new UUIDv7, falling back to a random UUID if the
// clock source fails.
func (UUIDv7Generator) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// BeginRun records a new run.
func (s *Store) BeginRun(ctx context.Context, ids RunIDGenerator) (Run, error) {
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	defer tx.Rollback()

	run := Run{ID: ids.Generate()}
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO runs (id, seq) VALUES (?, ?)`, run.ID, run.Seq); err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}
	return run, nil
}

// Put stores e under key for run. Uses ON CONFLICT(key) DO NOTHING: a key
// already present keeps its first entry, which is identical by
// construction of the key.
func (s *Store) Put(ctx context.Context, run Run, key string, e Entry) error {
	if run.ID == "" {
		return errors.New("write translation: no run")
	}
	payload, err := marshalEntry(e)
	if err != nil {
		return fmt.Errorf("write translation: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO translations
		(key, unit, kind, ir_hash, payload, run_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO NOTHING
	`,
		key,
		e.Unit,
		e.Kind,
		e.IRHash,
		payload,
		run.ID,
		run.Seq,
	)
	if err != nil {
		return fmt.Errorf("write translation: %w", err)
	}

	return nil
}

// Clear deletes every run and translation and returns how many
// translations were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM translations`)
	if err != nil {
		return 0, fmt.Errorf("clear translations: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear translations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return n, nil
}
