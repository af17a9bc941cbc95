package config

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "aptsbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  history_limit: 3\n"), 0644))

	var reloads atomic.Int32
	var lastLimit atomic.Int32
	w, err := NewWatcher(path, func(cfg *Config) {
		reloads.Add(1)
		lastLimit.Store(int32(cfg.Engine.HistoryLimit))
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("engine:\n  history_limit: 7\n"), 0644))

	// Debounce window plus ticker interval.
	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 5*time.Second, 50*time.Millisecond, "watcher never reloaded")
	require.EqualValues(t, 7, lastLimit.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "aptsbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  history_limit: 3\n"), 0644))

	var reloads atomic.Int32
	w, err := NewWatcher(path, func(*Config) { reloads.Add(1) })
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("irrelevant"), 0644))
	time.Sleep(800 * time.Millisecond)

	w.Stop()
	require.Zero(t, reloads.Load(), "unrelated file triggered a reload")
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "aptsbot.yaml")
	w, err := NewWatcher(path, nil)
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
