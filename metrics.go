// metrics.go: lightweight reload metrics with atomic counters
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"sync/atomic"
	"time"

	"github.com/agilira/go-timecache"
)

// StoreMetrics is a point-in-time copy of the store's reload counters.
type StoreMetrics struct {
	ReloadSuccesses int64     `json:"reload_successes"`
	ReloadFailures  int64     `json:"reload_failures"`
	ChangesNotified int64     `json:"changes_notified"`
	ListenerPanics  int64     `json:"listener_panics"`
	LastReloadTime  time.Time `json:"last_reload_time"`
}

// storeMetrics is the live counter set; all fields are updated atomically
// so the hot reload path never takes a lock for accounting.
type storeMetrics struct {
	reloadSuccesses atomic.Int64
	reloadFailures  atomic.Int64
	changesNotified atomic.Int64
	listenerPanics  atomic.Int64
	lastReloadNano  atomic.Int64
}

func (m *storeMetrics) recordSuccess() {
	m.reloadSuccesses.Add(1)
	m.lastReloadNano.Store(timecache.CachedTimeNano())
}

func (m *storeMetrics) recordFailure() {
	m.reloadFailures.Add(1)
}

func (m *storeMetrics) snapshot() StoreMetrics {
	out := StoreMetrics{
		ReloadSuccesses: m.reloadSuccesses.Load(),
		ReloadFailures:  m.reloadFailures.Load(),
		ChangesNotified: m.changesNotified.Load(),
		ListenerPanics:  m.listenerPanics.Load(),
	}
	if nano := m.lastReloadNano.Load(); nano > 0 {
		out.LastReloadTime = time.Unix(0, nano)
	}
	return out
}
