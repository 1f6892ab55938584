// Package gestures forwards table interactions (filter, sort, page size,
// paging) to the viewer's table engines and streams table updates.
package gestures

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
)

// SetupRoutes configures routes for the gestures feature.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Route("/tables/{table}", func(r chi.Router) {
		// Gestures answer with an SSE patch of the table body
		r.Post("/filter", handlers.Filter)
		r.Post("/sort/{column}", handlers.Sort)
		r.Post("/page-size", handlers.PageSize)
		r.Post("/next", handlers.Next)
		r.Post("/prev", handlers.Prev)

		// Long-lived stream following the table's cache key
		r.Get("/updates", handlers.Updates)
	})

	return nil
}
