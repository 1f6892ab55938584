// Package cache holds fetched collections keyed by query identity.
//
// The Store is explicit and injectable: handlers receive it, read collections
// through Load or Typed, apply optimistic edits through Mutate, and Subscribe
// to a key to learn when the collection behind it was replaced.
package cache

import (
	"cmp"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/google/btree"
	"github.com/leapstack-labs/leapdash/internal/notifier"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"golang.org/x/sync/singleflight"
)

const btreeDegree = 16

// Config configures a Store.
type Config struct {
	// RevalidateOnLoad refreshes cached collections in the background when
	// they are loaded (stale-while-revalidate).
	RevalidateOnLoad bool
	Logger           *slog.Logger
}

type entry struct {
	value     any
	dirty     bool
	updatedAt time.Time
}

// Store maps query keys to collections.
type Store struct {
	mu         sync.RWMutex
	entries    map[core.QueryKey]*entry
	index      *btree.BTreeG[core.QueryKey]
	notifier   *notifier.Notifier[core.QueryKey]
	group      singleflight.Group
	revalidate bool
	logger     *slog.Logger
	wg         sync.WaitGroup
}

// New creates an empty Store.
func New(cfg Config) *Store {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		entries:    make(map[core.QueryKey]*entry),
		index:      btree.NewG(btreeDegree, lessKey),
		notifier:   notifier.New[core.QueryKey](),
		revalidate: cfg.RevalidateOnLoad,
		logger:     logger,
	}
}

func lessKey(a, b core.QueryKey) bool {
	if c := cmp.Compare(a.Entity, b.Entity); c != 0 {
		return c < 0
	}
	if c := cmp.Compare(a.Parent, b.Parent); c != 0 {
		return c < 0
	}
	return a.ParentID < b.ParentID
}

// Seed installs an initial value for key unless one is already cached.
// It reports whether the value was installed.
func (s *Store) Seed(key core.QueryKey, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; ok {
		return false
	}
	s.put(key, value, false)
	return true
}

// Get returns the cached value for key.
func (s *Store) Get(key core.QueryKey) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set replaces the value for key with a server-confirmed one and notifies
// subscribers.
func (s *Store) Set(key core.QueryKey, value any) {
	s.mu.Lock()
	s.put(key, value, false)
	s.mu.Unlock()
	s.notifier.Broadcast(key)
}

// Mutate applies an optimistic local edit. The updater receives the current
// value (nil when nothing is cached) and returns the replacement. Mutated
// keys are no longer overwritten by background revalidation.
func (s *Store) Mutate(key core.QueryKey, updater func(old any) any) {
	s.mu.Lock()
	var old any
	if e, ok := s.entries[key]; ok {
		old = e.value
	}
	s.put(key, updater(old), true)
	s.mu.Unlock()

	s.logger.Debug("cache mutated", slog.String("key", key.String()))
	s.notifier.Broadcast(key)
}

// Subscribe returns a channel pinged whenever the value for key changes, and
// a function that cancels the subscription.
func (s *Store) Subscribe(key core.QueryKey) (<-chan struct{}, func()) {
	ch := s.notifier.Subscribe(key)
	return ch, func() { s.notifier.Unsubscribe(key, ch) }
}

// Keys returns the cached keys in order.
func (s *Store) Keys() []core.QueryKey {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]core.QueryKey, 0, s.index.Len())
	s.index.Ascend(func(k core.QueryKey) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

// Len returns the number of cached keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Wait blocks until background revalidations have finished.
func (s *Store) Wait() {
	s.wg.Wait()
}

// put stores value under key. Callers must hold s.mu.
func (s *Store) put(key core.QueryKey, value any, dirty bool) {
	if e, ok := s.entries[key]; ok {
		e.value = value
		e.dirty = e.dirty || dirty
		e.updatedAt = time.Now()
		return
	}
	s.entries[key] = &entry{value: value, dirty: dirty, updatedAt: time.Now()}
	s.index.ReplaceOrInsert(key)
}

// storeFetched installs a fetched value unless the key was mutated locally.
// It reports whether subscribers were notified.
func (s *Store) storeFetched(key core.QueryKey, value any) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && e.dirty {
		s.mu.Unlock()
		return false
	}
	if ok && reflect.DeepEqual(e.value, value) {
		e.updatedAt = time.Now()
		s.mu.Unlock()
		return false
	}
	s.put(key, value, false)
	s.mu.Unlock()

	s.notifier.Broadcast(key)
	return true
}

func (s *Store) isDirty(key core.QueryKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return ok && e.dirty
}
