// watcher.go: background modification-time polling with idempotent lifecycle
//
// The watcher owns exactly one polling goroutine per running instance. Each
// cycle compares the source file's modification time against the store's
// and triggers a reload when the file is strictly newer. The interval sleep
// is interruptible, so Stop returns promptly even with long intervals.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"context"
	"os"
	"sync"
	"time"
)

// WatcherOptions configures the polling behavior of a Watcher.
type WatcherOptions struct {
	// PollInterval is the sleep between polling cycles (default 10s)
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// StopTimeout bounds how long Stop waits for the polling goroutine to
	// exit (default 5s). An in-flight reload is never interrupted; only the
	// idle sleep is.
	StopTimeout time.Duration `json:"stop_timeout" yaml:"stop_timeout"`

	// Logger for status and error reporting (see NewLogger)
	Logger any `json:"-" yaml:"-"`
}

// DefaultWatcherOptions returns production-ready polling defaults.
//
// Property files change rarely, so a 10 second poll interval balances
// freshness against stat overhead.
func DefaultWatcherOptions() WatcherOptions {
	return WatcherOptions{
		PollInterval: 10 * time.Second,
		StopTimeout:  5 * time.Second,
	}
}

// Watcher keeps a Store's snapshot current by polling the source file for
// modifications in the background.
//
// The lifecycle is Stopped -> Running -> Stopped and is re-enterable: a
// stopped watcher may be started again. Start and Stop are idempotent and
// safe for concurrent use; at most one polling goroutine exists per watcher.
type Watcher struct {
	store   *Store
	logger  Logger
	options WatcherOptions

	mu      sync.Mutex // protects the lifecycle fields below
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher creates a watcher for the given store. The watcher does not
// poll until Start is called.
func NewWatcher(store *Store, options WatcherOptions) *Watcher {
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultWatcherOptions().PollInterval
	}
	if options.StopTimeout <= 0 {
		options.StopTimeout = DefaultWatcherOptions().StopTimeout
	}
	logger := options.Logger
	if logger == nil {
		logger = store.logger
	}
	return &Watcher{
		store:   store,
		logger:  NewLogger(logger),
		options: options,
	}
}

// Start transitions the watcher to Running and spawns the polling goroutine.
//
// Calling Start while already running has no additional effect: the call is
// reported through the logger and returns nil, and no second goroutine is
// created.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.logger.Warn("Property watcher already running", "path", w.store.Path())
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	w.running = true
	w.cancel = cancel
	w.done = done

	go w.run(ctx, done)

	w.logger.Info("Property watcher started",
		"path", w.store.Path(),
		"poll_interval", w.options.PollInterval)

	w.store.auditEvent("watcher_started", map[string]interface{}{
		"path":          w.store.Path(),
		"poll_interval": w.options.PollInterval.String(),
	})

	return nil
}

// Stop signals the polling goroutine to terminate and waits for it to exit,
// bounded by StopTimeout. Calling Stop while already stopped has no effect.
//
// The cancellation interrupts the interval sleep immediately; a reload that
// is already inside Source.Load runs to completion first.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return nil
	}

	w.cancel()

	var stopErr error
	select {
	case <-w.done:
	case <-time.After(w.options.StopTimeout):
		stopErr = NewWatcherStopTimeoutError(w.options.StopTimeout)
		w.logger.Warn("Property watcher stop timed out waiting for polling task",
			"path", w.store.Path(),
			"timeout", w.options.StopTimeout)
	}

	w.running = false
	w.cancel = nil
	w.done = nil

	w.logger.Info("Property watcher stopped", "path", w.store.Path())

	w.store.auditEvent("watcher_stopped", map[string]interface{}{
		"path":           w.store.Path(),
		"clean_shutdown": stopErr == nil,
	})

	return stopErr
}

// IsRunning reports whether the polling goroutine is currently active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// run is the polling loop. Each cycle checks the source file's modification
// time and reloads when it is strictly newer than the store's; a reload
// failure is logged and the loop continues, because the stale modification
// time means the next cycle retries naturally.
func (w *Watcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	timer := time.NewTimer(w.options.PollInterval)
	defer timer.Stop()

	for {
		// Cancellation wins over a simultaneously fired timer.
		select {
		case <-ctx.Done():
			return
		default:
		}

		w.pollOnce()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		timer.Reset(w.options.PollInterval)
	}
}

func (w *Watcher) pollOnce() {
	info, err := os.Stat(w.store.Path())
	if err != nil {
		w.logger.Warn("Property watcher cannot stat source file",
			"path", w.store.Path(),
			"error", err)
		return
	}

	if !info.ModTime().After(w.store.LastModified()) {
		return
	}

	w.logger.Debug("Property source modified, reloading",
		"path", w.store.Path(),
		"mod_time", info.ModTime())

	if err := w.store.Reload(); err != nil {
		// LastModified was not advanced, so the next cycle retries.
		w.logger.Error("Background reload failed",
			"path", w.store.Path(),
			"error", err)
	}
}
