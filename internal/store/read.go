package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Get returns the entry stored under key. The boolean is false on a miss.
func (s *Store) Get(ctx context.Context, key string) (Entry, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM translations WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read translation: %w", err)
	}
	e, err := unmarshalEntry(payload)
	if err != nil {
		return Entry{}, false, fmt.Errorf("read translation: %w", err)
	}
	return e, true, nil
}

// Listing is one translation as returned by List and Find.
type Listing struct {
	Key    string `json:"key"`
	Unit   string `json:"unit"`
	Kind   string `json:"kind"`
	IRHash string `json:"ir_hash"`
	RunID  string `json:"run_id"`
	Seq    int64  `json:"seq"`
}

// List returns every stored translation.
// Results are ordered deterministically: ORDER BY seq ASC, key ASC COLLATE BINARY.
func (s *Store) List(ctx context.Context) ([]Listing, error) {
	return s.Find(ctx, Filter{})
}

// Find returns the translations matching f, in List order.
func (s *Store) Find(ctx context.Context, f Filter) ([]Listing, error) {
	query, params, err := f.compile()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query translations: %w", err)
	}
	defer rows.Close()

	out := []Listing{}
	for rows.Next() {
		var l Listing
		if err := rows.Scan(&l.Key, &l.Unit, &l.Kind, &l.IRHash, &l.RunID, &l.Seq); err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate translations: %w", err)
	}
	return out, nil
}

// Stats summarizes the cache contents.
type Stats struct {
	Runs         int64 `json:"runs"`
	Translations int64 `json:"translations"`
	Functions    int64 `json:"functions"`
	Classes      int64 `json:"classes"`
	PayloadBytes int64 `json:"payload_bytes"`

	// LastSeq is the seq of the most recent run, 0 for an empty cache.
	LastSeq int64 `json:"last_seq"`
}

// Stats counts runs and translations.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(kind = 'function'), 0),
			COALESCE(SUM(kind = 'class'), 0),
			COALESCE(SUM(LENGTH(payload)), 0)
		FROM translations
	`).Scan(&st.Translations, &st.Functions, &st.Classes, &st.PayloadBytes)
	if err != nil {
		return Stats{}, fmt.Errorf("count translations: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(MAX(seq), 0) FROM runs`).Scan(&st.Runs, &st.LastSeq)
	if err != nil {
		return Stats{}, fmt.Errorf("count runs: %w", err)
	}
	return st, nil
}
