// Package users provides the user list and user detail pages.
package users

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
)

// SetupRoutes configures routes for the users feature.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/users", handlers.UsersPage)
	router.Get("/users/{id}", handlers.UserPage)

	return nil
}
