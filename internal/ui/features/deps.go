// Package features holds the dashboard's UI features and what they share.
package features

import (
	"log/slog"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapdash/internal/api"
	"github.com/leapstack-labs/leapdash/internal/cache"
	"github.com/leapstack-labs/leapdash/internal/ui/tables"
)

// Deps are the collaborators every feature's handlers are built from.
type Deps struct {
	API          *api.Client
	Cache        *cache.Store
	Tables       *tables.Registry
	SessionStore sessions.Store
	Logger       *slog.Logger

	PageSizes       []int
	DefaultPageSize int
	IsDev           bool
}

// Log returns the configured logger or a discarding one.
func (d Deps) Log() *slog.Logger {
	if d.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return d.Logger
}
