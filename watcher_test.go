// watcher_test.go: lifecycle and polling tests for the background watcher
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T, store *Store, interval time.Duration) (*Watcher, *TestLogger) {
	t.Helper()
	logger := NewTestLogger()
	watcher := NewWatcher(store, WatcherOptions{
		PollInterval: interval,
		StopTimeout:  2 * time.Second,
		Logger:       logger,
	})
	t.Cleanup(func() { _ = watcher.Stop() })
	return watcher, logger
}

// bumpModTime pushes the file's modification time strictly past the store's.
func bumpModTime(t *testing.T, path string, store *Store) {
	t.Helper()
	next := store.LastModified().Add(time.Second)
	require.NoError(t, os.Chtimes(path, next, next))
}

func TestWatcher_StartStopLifecycle(t *testing.T) {
	store, _ := newTestStore(t, `{"a": 1}`)
	watcher, _ := newTestWatcher(t, store, 10*time.Millisecond)

	assert.False(t, watcher.IsRunning())

	require.NoError(t, watcher.Start())
	assert.True(t, watcher.IsRunning())

	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.IsRunning())
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, `{"a": 1}`)
	watcher, _ := newTestWatcher(t, store, 10*time.Millisecond)

	assert.NoError(t, watcher.Stop(), "stopping a stopped watcher is a no-op")

	require.NoError(t, watcher.Start())
	require.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}

func TestWatcher_DoubleStartSingleTask(t *testing.T) {
	store, path := newTestStore(t, `{"a": 1}`)
	watcher, logger := newTestWatcher(t, store, 10*time.Millisecond)

	require.NoError(t, watcher.Start())
	require.NoError(t, watcher.Start(), "second start is reported, not an error")
	assert.NotEmpty(t, logger.MessagesByLevel("WARN"))

	// One Stop fully tears the watcher down: if the double start had leaked
	// a second goroutine, the modification below would still get picked up.
	require.NoError(t, watcher.Stop())
	assert.False(t, watcher.IsRunning())

	rewriteFile(t, path, `{"a": 2}`)
	bumpModTime(t, path, store)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, uint64(1), store.Generation(), "no polling task may survive Stop")
}

func TestWatcher_StartThenImmediateStop(t *testing.T) {
	store, path := newTestStore(t, `{"a": 1}`)
	watcher, _ := newTestWatcher(t, store, 10*time.Millisecond)

	require.NoError(t, watcher.Start())
	require.NoError(t, watcher.Stop())

	rewriteFile(t, path, `{"a": 2}`)
	bumpModTime(t, path, store)
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, uint64(1), store.Generation())
	assert.Equal(t, 1, store.GetInt("a", 0))
}

func TestWatcher_StopInterruptsIdleSleep(t *testing.T) {
	store, _ := newTestStore(t, `{"a": 1}`)
	// An hour-long interval: Stop must not wait for the sleep to elapse.
	watcher, _ := newTestWatcher(t, store, time.Hour)

	require.NoError(t, watcher.Start())
	time.Sleep(20 * time.Millisecond) // let the first poll cycle pass

	started := time.Now()
	require.NoError(t, watcher.Stop())
	assert.Less(t, time.Since(started), time.Second)
}

func TestWatcher_ReloadsOnNewerModTime(t *testing.T) {
	store, path := newTestStore(t, `{"a": 1}`)
	watcher, _ := newTestWatcher(t, store, 10*time.Millisecond)

	require.NoError(t, watcher.Start())

	rewriteFile(t, path, `{"a": 2}`)
	bumpModTime(t, path, store)

	assert.Eventually(t, func() bool {
		return store.GetInt("a", 0) == 2
	}, 2*time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, store.Generation(), uint64(2))
}

func TestWatcher_UnchangedModTimeNoReload(t *testing.T) {
	store, _ := newTestStore(t, `{"a": 1}`)
	watcher, _ := newTestWatcher(t, store, 10*time.Millisecond)

	require.NoError(t, watcher.Start())
	time.Sleep(100 * time.Millisecond)

	assert.Equal(t, uint64(1), store.Generation())
	assert.Equal(t, int64(0), store.Metrics().ReloadSuccesses)
}

func TestWatcher_FailedReloadRetriesNextCycle(t *testing.T) {
	store, path := newTestStore(t, `{"a": 1}`)
	watcher, _ := newTestWatcher(t, store, 10*time.Millisecond)

	require.NoError(t, watcher.Start())

	// Break the file: reloads fail, the loop keeps running, and the stale
	// modification time keeps the retry condition alive.
	rewriteFile(t, path, `broken {{{`)
	bumpModTime(t, path, store)

	assert.Eventually(t, func() bool {
		return store.Metrics().ReloadFailures > 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), store.Generation())
	assert.Equal(t, 1, store.GetInt("a", 0), "previous snapshot stays authoritative")

	// Fix the file: the next cycle succeeds without any intervention.
	rewriteFile(t, path, `{"a": 3}`)
	bumpModTime(t, path, store)

	assert.Eventually(t, func() bool {
		return store.GetInt("a", 0) == 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWatcher_IsRestartable(t *testing.T) {
	store, path := newTestStore(t, `{"a": 1}`)
	watcher, _ := newTestWatcher(t, store, 10*time.Millisecond)

	require.NoError(t, watcher.Start())
	require.NoError(t, watcher.Stop())

	require.NoError(t, watcher.Start())
	assert.True(t, watcher.IsRunning())

	rewriteFile(t, path, `{"a": 2}`)
	bumpModTime(t, path, store)

	assert.Eventually(t, func() bool {
		return store.GetInt("a", 0) == 2
	}, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, watcher.Stop())
}

func TestWatcher_DefaultsApplied(t *testing.T) {
	store, _ := newTestStore(t, `{"a": 1}`)
	watcher := NewWatcher(store, WatcherOptions{})

	assert.Equal(t, DefaultWatcherOptions().PollInterval, watcher.options.PollInterval)
	assert.Equal(t, DefaultWatcherOptions().StopTimeout, watcher.options.StopTimeout)
}
