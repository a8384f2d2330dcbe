package util

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOnlyLoggerWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dexbook.log")

	logger, err := NewFileOnlyLogger(path)
	require.NoError(t, err)
	logger.Sugar().Infow("fetch_succeeded", "address", "TokenABC")
	require.NoError(t, logger.Sync())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "fetch_succeeded", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "TokenABC", entry["address"])
	assert.Contains(t, entry, "ts")
}

func TestLoggerWithFileMatchesFileOnlyFormat(t *testing.T) {
	dir := t.TempDir()
	teePath := filepath.Join(dir, "tee.log")
	onlyPath := filepath.Join(dir, "only.log")

	tee, err := NewLoggerWithFile(teePath)
	require.NoError(t, err)
	only, err := NewFileOnlyLogger(onlyPath)
	require.NoError(t, err)

	tee.Info("started")
	only.Info("started")
	_ = tee.Sync()
	require.NoError(t, only.Sync())

	keys := func(path string) []string {
		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &entry))
		out := make([]string, 0, len(entry))
		for k := range entry {
			out = append(out, k)
		}
		return out
	}
	assert.ElementsMatch(t, keys(onlyPath), keys(teePath))
}

func TestFileOnlyLoggerEmptyPath(t *testing.T) {
	logger, err := NewFileOnlyLogger("")
	require.NoError(t, err)
	logger.Info("dropped")
}
