// Package core defines the shared language of the leapdash system.
//
// This package contains:
//   - Domain entities (User, Post, Comment)
//   - Query identity (QueryKey) used by the fetcher and the cache
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
