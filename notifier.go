// notifier.go: ordered change listener registry with failure isolation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"sync"
)

// ChangeListener receives the previous and new snapshot after a reload
// that actually changed the configuration.
//
// Listeners are invoked synchronously, in registration order, from within
// the reload call. A listener that panics is isolated: the panic is logged
// and subsequent listeners still run.
type ChangeListener interface {
	PropertiesChanged(old, new *Snapshot)
}

// ChangeListenerFunc adapts a plain function to the ChangeListener interface.
type ChangeListenerFunc func(old, new *Snapshot)

// PropertiesChanged implements ChangeListener.
func (f ChangeListenerFunc) PropertiesChanged(old, new *Snapshot) {
	f(old, new)
}

// changeNotifier holds the insertion-ordered listener registry.
//
// Registration is safe concurrently with notification delivery: delivery
// iterates over a copy of the registry taken under the read lock, so a
// listener added mid-delivery is simply picked up by the next notification.
type changeNotifier struct {
	mu        sync.RWMutex
	listeners []ChangeListener
	logger    Logger
	metrics   *storeMetrics
}

func newChangeNotifier(logger Logger, metrics *storeMetrics) *changeNotifier {
	return &changeNotifier{
		logger:  logger,
		metrics: metrics,
	}
}

func (n *changeNotifier) addListener(listener ChangeListener) {
	if listener == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, listener)
}

func (n *changeNotifier) listenerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// notify delivers (old, new) to every registered listener in order.
// Caller has already established that the snapshots differ.
func (n *changeNotifier) notify(old, new *Snapshot) {
	n.mu.RLock()
	listeners := make([]ChangeListener, len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.RUnlock()

	for i, listener := range listeners {
		n.invoke(i, listener, old, new)
	}

	if n.metrics != nil {
		n.metrics.changesNotified.Add(1)
	}
}

func (n *changeNotifier) invoke(index int, listener ChangeListener, old, new *Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			if n.metrics != nil {
				n.metrics.listenerPanics.Add(1)
			}
			n.logger.Error("Change listener panicked during notification",
				"error", NewListenerPanicError(index, r),
				"listener_index", index)
		}
	}()
	listener.PropertiesChanged(old, new)
}
