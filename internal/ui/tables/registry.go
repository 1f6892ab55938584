package tables

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type registryKey struct {
	viewer string
	table  string
}

type registryEntry struct {
	table   Table
	touched time.Time
	holds   int
}

// Registry keeps the live tables of every viewer. Tables that have not been
// used for a while and have no open update stream are swept.
type Registry struct {
	mu      sync.Mutex
	entries map[registryKey]*registryEntry
	logger  *slog.Logger
	now     func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		entries: make(map[registryKey]*registryEntry),
		logger:  logger,
		now:     time.Now,
	}
}

// Put installs table for viewer, replacing any previous instance with the
// same id.
func (r *Registry) Put(viewer string, table Table) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := registryKey{viewer: viewer, table: table.ID()}
	holds := 0
	if prev, ok := r.entries[key]; ok {
		holds = prev.holds
	}
	r.entries[key] = &registryEntry{table: table, touched: r.now(), holds: holds}
}

// Get returns the viewer's table with the given id.
func (r *Registry) Get(viewer, id string) (Table, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[registryKey{viewer: viewer, table: id}]
	if !ok {
		return nil, false
	}
	e.touched = r.now()
	return e.table, true
}

// Hold marks the table as in use by an update stream until release is
// called. Held tables are never swept.
func (r *Registry) Hold(viewer, id string) (release func(), ok bool) {
	key := registryKey{viewer: viewer, table: id}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	e.holds++
	e.touched = r.now()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if e, ok := r.entries[key]; ok && e.holds > 0 {
				e.holds--
				e.touched = r.now()
			}
		})
	}, true
}

// Sweep removes tables idle for longer than ttl and returns how many were
// removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-ttl)
	removed := 0
	for key, e := range r.entries {
		if e.holds == 0 && e.touched.Before(cutoff) {
			delete(r.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, ttl, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(ttl); n > 0 {
				r.logger.Debug("swept idle tables", "count", n)
			}
		}
	}
}

// Len returns the number of live tables.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
