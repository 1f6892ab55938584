// Package posts provides the post list, the post detail page and the
// add-comment form.
package posts

import (
	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
)

// SetupRoutes configures routes for the posts feature.
func SetupRoutes(router chi.Router, deps features.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/posts", handlers.PostsPage)
	router.Get("/posts/{id}", handlers.PostPage)
	router.Post("/posts/{id}/comments", handlers.SubmitComment)

	return nil
}
