package cache

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/leapdash/pkg/core"
)

// Typed returns the cached collection for key as []R.
func Typed[R any](s *Store, key core.QueryKey) ([]R, bool) {
	v, ok := s.Get(key)
	if !ok {
		return nil, false
	}
	rows, ok := v.([]R)
	return rows, ok
}

// Update applies an optimistic edit to the []R collection cached under key.
func Update[R any](s *Store, key core.QueryKey, fn func([]R) []R) {
	s.Mutate(key, func(old any) any {
		rows, _ := old.([]R)
		return fn(rows)
	})
}

// Load returns the collection for key. A cached collection is returned at
// once; with RevalidateOnLoad a background fetch then refreshes it. Otherwise
// the collection is fetched, at most once concurrently per key, and cached.
//
// Load always returns a usable slice. A failed fetch degrades to the cached
// value or an empty collection; the error is logged and returned.
func Load[R any](ctx context.Context, s *Store, key core.QueryKey, fetch func(context.Context) ([]R, error)) ([]R, error) {
	if rows, ok := Typed[R](s, key); ok {
		if s.revalidate && !s.isDirty(key) {
			s.revalidateAsync(ctx, key, func(ctx context.Context) (any, error) {
				return fetch(ctx)
			})
		}
		return rows, nil
	}

	v, err, shared := s.group.Do(key.String(), func() (any, error) {
		rows, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.storeFetched(key, rows)
		return rows, nil
	})
	if err != nil {
		s.logger.Warn("fetch failed",
			slog.String("key", key.String()),
			slog.String("error", err.Error()))
		if rows, ok := Typed[R](s, key); ok {
			return rows, fmt.Errorf("load %s: %w", key, err)
		}
		return []R{}, fmt.Errorf("load %s: %w", key, err)
	}

	s.logger.Debug("collection loaded", slog.String("key", key.String()), slog.Bool("shared", shared))

	// A concurrent Mutate may have replaced the fetched value.
	if rows, ok := Typed[R](s, key); ok {
		return rows, nil
	}
	return v.([]R), nil
}

func (s *Store) revalidateAsync(ctx context.Context, key core.QueryKey, fetch func(context.Context) (any, error)) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, err, _ := s.group.Do(key.String(), func() (any, error) {
			v, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			if s.storeFetched(key, v) {
				s.logger.Debug("collection revalidated", slog.String("key", key.String()))
			}
			return v, nil
		})
		if err != nil {
			s.logger.Warn("revalidation failed",
				slog.String("key", key.String()),
				slog.String("error", err.Error()))
		}
	}()
}
