// Package notifier provides a keyed broadcast mechanism for SSE updates.
package notifier

import "sync"

// Notifier broadcasts update signals to listeners subscribed to a key.
// It uses a simple ping mechanism - listeners receive an empty struct
// when the data behind their key changed and should re-read it.
type Notifier[K comparable] struct {
	mu        sync.RWMutex
	listeners map[K]map[chan struct{}]struct{}
}

// New creates a new Notifier instance.
func New[K comparable]() *Notifier[K] {
	return &Notifier[K]{
		listeners: make(map[K]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a channel that receives pings when key changes.
// The caller must call Unsubscribe when done to prevent goroutine leaks.
func (n *Notifier[K]) Subscribe(key K) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	set, ok := n.listeners[key]
	if !ok {
		set = make(map[chan struct{}]struct{})
		n.listeners[key] = set
	}
	set[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
// Unsubscribing a channel twice is a no-op.
func (n *Notifier[K]) Unsubscribe(key K, ch chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	set, ok := n.listeners[key]
	if !ok {
		return
	}
	if _, ok := set[ch]; !ok {
		return
	}
	delete(set, ch)
	if len(set) == 0 {
		delete(n.listeners, key)
	}
	close(ch)
}

// Broadcast sends a ping to every listener of key.
// Non-blocking: if a listener's channel is full, the ping is skipped.
func (n *Notifier[K]) Broadcast(key K) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.listeners[key] {
		select {
		case ch <- struct{}{}:
		default:
			// Channel full, skip (listener will catch up on next broadcast)
		}
	}
}

// BroadcastAll pings every listener of every key.
func (n *Notifier[K]) BroadcastAll() {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for _, set := range n.listeners {
		for ch := range set {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Count returns the number of listeners subscribed to key.
func (n *Notifier[K]) Count(key K) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners[key])
}
