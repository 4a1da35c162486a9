// Package properties provides a concurrency-safe, hot-reloadable property
// store for Go applications. It loads a structured configuration file
// (JSON, YAML) into an immutable flattened snapshot of dot-separated keys,
// serves typed reads with default fallbacks, and can keep the snapshot
// current by polling the source file for modifications in the background.
//
// Key Features:
//   - Immutable snapshots with atomic build-then-swap publication
//   - Typed accessors (string, int, float, bool) with default fallbacks
//   - Background modification-time polling with interruptible sleep
//   - Idempotent, race-free watcher start/stop
//   - Change listeners with per-listener failure isolation
//   - Structured error codes and comprehensive audit logging
//
// Basic Usage:
//
//	// Create a store with an initial synchronous load
//	store, err := properties.New("app.yaml", properties.DefaultStoreOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	// Read flattened keys with defaults
//	host := store.GetString("database.host", "localhost")
//	port := store.GetInt("database.port", 5432)
//
//	// React to configuration changes
//	store.AddListener(properties.ChangeListenerFunc(func(old, new *properties.Snapshot) {
//		log.Printf("configuration changed: %d -> %d keys", old.Len(), new.Len())
//	}))
//
//	// Keep the snapshot current in the background
//	watcher := properties.NewWatcher(store, properties.DefaultWatcherOptions())
//	if err := watcher.Start(); err != nil {
//		log.Fatal(err)
//	}
//	defer watcher.Stop()
//
// Concurrency:
// Readers never block on an in-flight reload: the current snapshot is
// published through an atomic pointer, so every read observes exactly one
// complete generation. Reloads are serialized among themselves, and a failed
// reload leaves the previous snapshot fully intact.
//
// Copyright (c) 2025 AGILira - A. Giordano
// SPDX-License-Identifier: MPL-2.0
package properties
