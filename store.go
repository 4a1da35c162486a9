// store.go: concurrency-safe flattened property store with atomic reloads
//
// The store holds one immutable snapshot behind an atomic pointer. Readers
// take whatever snapshot is current without blocking; reloads serialize
// among themselves, build the replacement snapshot off to the side, and
// publish it with a single pointer swap. A failed reload changes nothing.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/argus"
	goerrors "github.com/agilira/go-errors"
)

// storeState bundles the snapshot with its generation metadata so that a
// single atomic load always yields a consistent (snapshot, generation,
// mod time) triple.
type storeState struct {
	snapshot     *Snapshot
	generation   uint64
	lastModified time.Time
}

// StoreOptions configures store construction.
type StoreOptions struct {
	// Source loads and flattens the property file. When nil, a FileSource
	// with default options is used.
	Source Source

	// Logger for status and error reporting. Accepts a Logger interface,
	// *zap.Logger, or nil for silent operation (see NewLogger).
	Logger any

	// AuditConfig enables the Argus audit trail for store lifecycle and
	// reload events when AuditConfig.Enabled is set.
	AuditConfig argus.AuditConfig
}

// DefaultStoreOptions returns production-ready defaults: a file source
// with automatic format detection, silent logging, and no audit trail.
func DefaultStoreOptions() StoreOptions {
	return StoreOptions{
		Source: NewFileSource(DefaultFileSourceOptions()),
	}
}

// Store maintains the current flattened property snapshot for one source
// file and exposes typed, default-valued reads over it.
//
// All methods are safe for concurrent use. Reads never block on an
// in-flight reload beyond the cost of an atomic pointer load.
type Store struct {
	path   string
	source Source
	logger Logger

	current  atomic.Pointer[storeState]
	reloadMu sync.Mutex // serializes the reload body

	notifier    *changeNotifier
	metrics     storeMetrics
	auditLogger *argus.AuditLogger
}

// New creates a property store with an initial synchronous load.
//
// Construction is fatal when the source file cannot be accessed
// (SourceNotFound) or cannot be parsed (ParseError): no partial store is
// ever returned. On success the store's generation starts at 1 and
// LastModified reflects the file's modification time at load.
func New(path string, options StoreOptions) (*Store, error) {
	source := options.Source
	if source == nil {
		source = NewFileSource(DefaultFileSourceOptions())
	}
	logger := NewLogger(options.Logger)

	var auditLogger *argus.AuditLogger
	if options.AuditConfig.Enabled {
		var err error
		auditLogger, err = argus.NewAuditLogger(options.AuditConfig)
		if err != nil {
			return nil, err
		}
	}

	closeAuditOnFailure := func() {
		if auditLogger != nil {
			_ = auditLogger.Close()
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		closeAuditOnFailure()
		return nil, NewSourceNotFoundError(path, err)
	}
	if !info.Mode().IsRegular() {
		closeAuditOnFailure()
		return nil, NewSourceNotRegularError(path)
	}

	values, err := source.Load(path)
	if err != nil {
		closeAuditOnFailure()
		return nil, err
	}

	store := &Store{
		path:        path,
		source:      source,
		logger:      logger,
		auditLogger: auditLogger,
	}
	store.notifier = newChangeNotifier(logger, &store.metrics)
	store.current.Store(&storeState{
		snapshot:     newSnapshot(values),
		generation:   1,
		lastModified: info.ModTime(),
	})

	logger.Info("Property store created",
		"path", path,
		"keys", len(values),
		"last_modified", info.ModTime())

	store.auditEvent("store_created", map[string]interface{}{
		"path": path,
		"keys": len(values),
	})

	return store, nil
}

// Path returns the source file path the store was created with.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns the current immutable snapshot.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load().snapshot
}

// Generation returns the monotonically increasing reload counter. It is 1
// after construction and advances by one on every successful reload.
func (s *Store) Generation() uint64 {
	return s.current.Load().generation
}

// LastModified returns the source file's modification time at the moment
// the current snapshot was loaded.
func (s *Store) LastModified() time.Time {
	return s.current.Load().lastModified
}

// Lookup returns the raw value for key and whether it is present in the
// current snapshot.
func (s *Store) Lookup(key string) (Value, bool) {
	return s.Snapshot().Lookup(key)
}

// Get returns the raw value for key, or def when the key is absent.
func (s *Store) Get(key string, def Value) Value {
	return s.Snapshot().Get(key, def)
}

// Size returns the number of keys in the current snapshot.
func (s *Store) Size() int {
	return s.Snapshot().Len()
}

// HasKey reports whether the current snapshot contains the given key.
func (s *Store) HasKey(key string) bool {
	return s.Snapshot().Has(key)
}

// AllProperties returns a defensive copy of the current snapshot's mapping.
func (s *Store) AllProperties() map[string]Value {
	return s.Snapshot().Properties()
}

// AddListener registers a change listener. Listeners are invoked in
// registration order after every successful reload whose snapshot differs
// from the previous one. Safe to call concurrently with delivery.
func (s *Store) AddListener(listener ChangeListener) {
	s.notifier.addListener(listener)
}

// Metrics returns a point-in-time copy of the store's reload counters.
func (s *Store) Metrics() StoreMetrics {
	return s.metrics.snapshot()
}

// Reload re-reads the source file and atomically publishes the result as
// the new current snapshot.
//
// Only one reload proceeds at a time; concurrent callers wait their turn.
// On success the generation advances, LastModified is updated, and
// registered listeners receive (old, new) when the snapshot actually
// changed. On failure the previous snapshot, generation, and LastModified
// remain exactly as they were - the store never exposes an empty or
// half-populated snapshot.
func (s *Store) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	info, err := os.Stat(s.path)
	if err != nil {
		s.metrics.recordFailure()
		reloadErr := NewSourceNotFoundError(s.path, err)
		s.auditReloadFailed(reloadErr)
		return reloadErr
	}

	values, err := s.source.Load(s.path)
	if err != nil {
		s.metrics.recordFailure()
		reloadErr := s.asParseError(err)
		s.auditReloadFailed(reloadErr)
		return reloadErr
	}

	old := s.current.Load()
	next := &storeState{
		snapshot:     newSnapshot(values),
		generation:   old.generation + 1,
		lastModified: info.ModTime(),
	}

	// Publication point: readers switch to the new generation here.
	s.current.Store(next)
	s.metrics.recordSuccess()

	s.logger.Info("Property store reloaded",
		"path", s.path,
		"generation", next.generation,
		"keys", next.snapshot.Len())

	s.auditEvent("reload_succeeded", map[string]interface{}{
		"path":       s.path,
		"generation": next.generation,
		"keys":       next.snapshot.Len(),
	})

	if !old.snapshot.Equal(next.snapshot) {
		s.notifier.notify(old.snapshot, next.snapshot)
	}

	return nil
}

// Close releases the store's audit logger, if any. The store itself holds
// no other resources; stopping its watcher (if one exists) is the caller's
// responsibility.
func (s *Store) Close() error {
	if s.auditLogger != nil {
		return s.auditLogger.Close()
	}
	return nil
}

// asParseError keeps coded errors as-is and wraps everything else, so that
// custom Source implementations returning plain errors still surface the
// recoverable parse-error taxonomy.
func (s *Store) asParseError(err error) error {
	if _, ok := err.(*goerrors.Error); ok {
		return err
	}
	return NewParseError(s.path, err)
}

func (s *Store) auditReloadFailed(err error) {
	s.logger.Error("Property store reload failed", "path", s.path, "error", err)
	s.auditEvent("reload_failed", map[string]interface{}{
		"path":  s.path,
		"error": err.Error(),
	})
}

// auditEvent logs a store event to the audit trail when auditing is enabled.
func (s *Store) auditEvent(eventType string, context map[string]interface{}) {
	if s.auditLogger == nil {
		return
	}
	if context == nil {
		context = make(map[string]interface{})
	}
	context["component"] = "property_store"
	context["timestamp"] = time.Now().Format(time.RFC3339)
	context["pid"] = os.Getpid()

	s.auditLogger.LogSecurityEvent(eventType, "Property store event", context)
}
