package store

import (
	"fmt"
	"path"
	"strings"
)

// Filter selects translations for Find. Zero fields match everything.
type Filter struct {
	// Unit is a shell pattern over unit names ("Vec*", "add").
	Unit string
	// Kind is "function" or "class".
	Kind string
	// RunID restricts results to one run.
	RunID string
	// Limit caps the number of rows; zero means no limit.
	Limit int
}

const listColumns = `key, unit, kind, ir_hash, run_id, seq`

// compile builds the SELECT for f. Values are always bound as parameters
// and the ORDER BY is always present.
func (f Filter) compile() (string, []any, error) {
	var (
		conds  []string
		params []any
	)
	if f.Unit != "" {
		if _, err := path.Match(f.Unit, ""); err != nil {
			return "", nil, fmt.Errorf("invalid unit pattern %q: %w", f.Unit, err)
		}
		conds = append(conds, "unit GLOB ?")
		params = append(params, f.Unit)
	}
	if f.Kind != "" {
		if f.Kind != "function" && f.Kind != "class" {
			return "", nil, fmt.Errorf("invalid kind %q: must be function or class", f.Kind)
		}
		conds = append(conds, "kind = ?")
		params = append(params, f.Kind)
	}
	if f.RunID != "" {
		conds = append(conds, "run_id = ?")
		params = append(params, f.RunID)
	}
	if f.Limit < 0 {
		return "", nil, fmt.Errorf("invalid limit %d", f.Limit)
	}

	var b strings.Builder
	b.WriteString("SELECT " + listColumns + " FROM translations")
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	b.WriteString(" ORDER BY seq ASC, key COLLATE BINARY ASC")
	if f.Limit > 0 {
		b.WriteString(" LIMIT ?")
		params = append(params, f.Limit)
	}
	return b.String(), params, nil
}
