package home

import (
	"net/http"
)

// DefaultPath is where the landing page sends visitors.
const DefaultPath = "/users"

// Handlers provides HTTP handlers for the home feature.
type Handlers struct{}

// NewHandlers creates a new Handlers instance.
func NewHandlers() *Handlers {
	return &Handlers{}
}

// HomePage redirects to the users list.
func (h *Handlers) HomePage(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, DefaultPath, http.StatusFound)
}
