package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jitfront/internal/store"
)

func executeCache(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCacheCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// populatedCache compiles the geometry manifest into a fresh cache.
func populatedCache(t *testing.T) string {
	t.Helper()
	db := filepath.Join(t.TempDir(), "cache.db")
	manifestDir := filepath.Join("..", "..", "testdata", "manifests", "geometry")
	_, err := executeCompile(t, FormatJSON, manifestDir, "--cache", db)
	require.NoError(t, err)
	return db
}

func TestCacheStats(t *testing.T) {
	db := populatedCache(t)

	out, err := executeCache(t, FormatText, "stats", "--cache", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Runs:         1 (last seq 1)")
	assert.Contains(t, out, "Translations: 6 (5 function(s), 1 class(es))")

	out, err = executeCache(t, FormatJSON, "stats", "--cache", db)
	require.NoError(t, err)
	var resp struct {
		Status string      `json:"status"`
		Data   store.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, int64(6), resp.Data.Translations)
	assert.Positive(t, resp.Data.PayloadBytes)
}

func TestCacheList(t *testing.T) {
	db := populatedCache(t)

	out, err := executeCache(t, FormatJSON, "list", "--cache", db)
	require.NoError(t, err)
	var resp struct {
		Data []store.Listing `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 6)
	for _, l := range resp.Data {
		assert.Equal(t, int64(1), l.Seq)
		assert.Len(t, l.IRHash, 64)
	}

	out, err = executeCache(t, FormatText, "list", "--cache", db, "--kind", "class")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] Vec (class) ")
	assert.NotContains(t, out, "(function)")
}

func TestCacheListFilters(t *testing.T) {
	db := populatedCache(t)

	out, err := executeCache(t, FormatJSON, "list", "--cache", db, "--unit", "t*")
	require.NoError(t, err)
	var resp struct {
		Data []store.Listing `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	var names []string
	for _, l := range resp.Data {
		names = append(names, l.Unit)
	}
	assert.ElementsMatch(t, []string{"total", "trace"}, names)

	_, err = executeCache(t, FormatText, "list", "--cache", db, "--kind", "module")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCacheMissWhenMemberBecomesUnused(t *testing.T) {
	const classSource = "class P:\n    def f(self):\n        return 1\n"
	const classOnly = "package units\nunit: P: {\n\tfile: \"m.py\"\n\tkind: \"class\"\n}\n"
	dir := writeProject(t, map[string]string{"m.py": classSource, "units.cue": classOnly})
	db := filepath.Join(t.TempDir(), "cache.db")

	first, err := executeCompile(t, FormatJSON, dir, "--cache", db)
	require.NoError(t, err)
	active := decodeCompile(t, first).Data.Units[0]
	assert.NotContains(t, active.Tree, "Cannot call @unused methods")

	withUnused := classOnly + "unit: \"P.f\": {\n\tfile: \"m.py\"\n\tself: \"P\"\n\tunused: true\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "units.cue"), []byte(withUnused), 0644))

	second, err := executeCompile(t, FormatJSON, dir, "--cache", db)
	require.NoError(t, err)
	resp := decodeCompile(t, second)
	require.Len(t, resp.Data.Units, 2)
	cls := resp.Data.Units[0]
	assert.Equal(t, "P", cls.Unit)
	assert.False(t, cls.Cached)
	assert.Contains(t, cls.Tree, "Cannot call @unused methods")
	assert.NotEqual(t, active.IRHash, cls.IRHash)

	third, err := executeCompile(t, FormatJSON, dir, "--cache", db)
	require.NoError(t, err)
	assert.Equal(t, 2, decodeCompile(t, third).Data.CacheHits)
}

func TestCacheClear(t *testing.T) {
	db := populatedCache(t)

	out, err := executeCache(t, FormatText, "clear", "--cache", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 6 cached translation(s)")

	out, err = executeCache(t, FormatText, "list", "--cache", db)
	require.NoError(t, err)
	assert.Contains(t, out, "No cached translations.")
}

func TestCacheRejectsMsgpack(t *testing.T) {
	_, err := executeCache(t, FormatMsgpack, "stats", "--cache", filepath.Join(t.TempDir(), "c.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCacheOpenFailure(t *testing.T) {
	out, err := executeCache(t, FormatText, "stats", "--cache", filepath.Join(t.TempDir(), "missing", "dir", "c.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeCache)
}
