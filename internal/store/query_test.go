package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jitfront/internal/testutil"
)

// =============================================================================
// Filter compilation
// =============================================================================

func TestFilterCompileEmpty(t *testing.T) {
	query, params, err := Filter{}.compile()
	require.NoError(t, err)
	assert.Equal(t, "SELECT key, unit, kind, ir_hash, run_id, seq FROM translations ORDER BY seq ASC, key COLLATE BINARY ASC", query)
	assert.Empty(t, params)
}

func TestFilterCompileBindsValues(t *testing.T) {
	query, params, err := Filter{Unit: "Vec*", Kind: "class", RunID: "run-0001", Limit: 3}.compile()
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE unit GLOB ? AND kind = ? AND run_id = ?")
	assert.Contains(t, query, "ORDER BY seq ASC, key COLLATE BINARY ASC LIMIT ?")
	assert.NotContains(t, query, "Vec")
	assert.Equal(t, []any{"Vec*", "class", "run-0001", 3}, params)
}

func TestFilterCompileRejects(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"bad pattern", Filter{Unit: "[a"}, "invalid unit pattern"},
		{"bad kind", Filter{Kind: "method"}, "invalid kind"},
		{"negative limit", Filter{Limit: -1}, "invalid limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.filter.compile()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

// =============================================================================
// Find
// =============================================================================

func seedListings(t *testing.T) (*Store, []Run) {
	t.Helper()
	s := createTestStore(t)
	ctx := context.Background()
	ids := testutil.NewSequentialIDs("")

	r1, err := s.BeginRun(ctx, ids)
	require.NoError(t, err)
	r2, err := s.BeginRun(ctx, ids)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, r1, "k1", Entry{Unit: "scale", Kind: "function"}))
	require.NoError(t, s.Put(ctx, r1, "k2", Entry{Unit: "Vec", Kind: "class"}))
	require.NoError(t, s.Put(ctx, r2, "k3", Entry{Unit: "vec_len", Kind: "function"}))
	return s, []Run{r1, r2}
}

func units(list []Listing) []string {
	out := make([]string, len(list))
	for i, l := range list {
		out[i] = l.Unit
	}
	return out
}

func TestFind(t *testing.T) {
	s, runs := seedListings(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{}, []string{"scale", "Vec", "vec_len"}},
		{"glob is case sensitive", Filter{Unit: "Vec*"}, []string{"Vec"}},
		{"kind", Filter{Kind: "function"}, []string{"scale", "vec_len"}},
		{"run", Filter{RunID: runs[1].ID}, []string{"vec_len"}},
		{"limit", Filter{Limit: 2}, []string{"scale", "Vec"}},
		{"no match", Filter{Unit: "nothing"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.Find(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, units(list))
		})
	}
}
