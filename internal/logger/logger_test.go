package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesToFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "log", "groups.log")

	onDone, err := Setup(logPath, 7)
	require.NoError(t, err)

	slog.Info("loaded groups", "user_id", 3)
	onDone()

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded groups")
	assert.Contains(t, string(data), "user_id=3")
}

func TestSetup_RemovesOldLogs(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "old.log")
	fresh := filepath.Join(dir, "recent.log")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(fresh, []byte("y"), 0644))

	past := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, past, past))

	onDone, err := Setup(filepath.Join(dir, "groups.log"), 7)
	require.NoError(t, err)
	defer onDone()

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestSetup_KeepsNonLogFiles(t *testing.T) {
	dir := t.TempDir()
	dbFile := filepath.Join(dir, "OnkoDICOM.db")
	staleLog := filepath.Join(dir, "groups.log.old.log")
	require.NoError(t, os.WriteFile(dbFile, []byte("sqlite"), 0644))
	require.NoError(t, os.WriteFile(staleLog, []byte("x"), 0644))

	past := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(dbFile, past, past))
	require.NoError(t, os.Chtimes(staleLog, past, past))

	onDone, err := Setup(filepath.Join(dir, "groups.log"), 7)
	require.NoError(t, err)
	defer onDone()

	_, err = os.Stat(dbFile)
	assert.NoError(t, err, "database file must survive log cleanup")
	_, err = os.Stat(staleLog)
	assert.True(t, os.IsNotExist(err))
}
