package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsSpecWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	changed, errs, open := w.Poll()
	assert.Empty(t, changed)
	assert.Empty(t, errs)
	assert.True(t, open)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, "player.yaml")
	require.NoError(t, os.WriteFile(target, []byte("gravity: -900\n"), 0o644))

	var seen []string
	require.Eventually(t, func() bool {
		got, _, _ := w.Poll()
		seen = append(seen, got...)
		return len(seen) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, target, seen[0])
	assert.NotContains(t, seen, filepath.Join(dir, "notes.txt"))
}

func TestPollAfterCloseReportsClosed(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	changed, errs, open := w.Poll()
	assert.Empty(t, changed)
	assert.Empty(t, errs)
	assert.False(t, open)
}
