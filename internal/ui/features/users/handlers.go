package users

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/leapstack-labs/leapdash/internal/api"
	"github.com/leapstack-labs/leapdash/internal/cache"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common/components"
	"github.com/leapstack-labs/leapdash/internal/ui/tables"
	"github.com/leapstack-labs/leapdash/internal/ui/viewer"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// Handlers provides HTTP handlers for the users feature.
type Handlers struct {
	deps   features.Deps
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: deps.Log().With("feature", "users"),
	}
}

// UsersPage renders the users table.
func (h *Handlers) UsersPage(w http.ResponseWriter, r *http.Request) {
	viewerID, err := viewer.Ensure(h.deps.SessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := common.PageData{
		Title:       "Users",
		Heading:     "Users",
		CurrentPath: "/users",
		IsDev:       h.deps.IsDev,
	}
	if _, err := cache.Load(r.Context(), h.deps.Cache, core.UsersKey(), h.deps.API.Users); err != nil {
		page.Notice = "Users could not be loaded from the API."
	}

	table := tables.Bind(h.deps.UsersTableSpec(), h.deps.Cache)
	h.deps.Tables.Put(viewerID, table)

	if err := components.Page(page, components.TableSection(table.Data())).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UserPage renders a user's card and the posts they wrote.
func (h *Handlers) UserPage(w http.ResponseWriter, r *http.Request) {
	id, ok := features.PathID(r, "id")
	if !ok {
		h.deps.RenderError(w, r, http.StatusNotFound, "User not found.")
		return
	}

	user, err := h.deps.API.User(r.Context(), id)
	switch {
	case errors.Is(err, api.ErrNotFound):
		h.deps.RenderError(w, r, http.StatusNotFound, "User not found.")
		return
	case err != nil:
		h.logger.Warn("fetch user failed", "id", id, "error", err)
		h.deps.RenderError(w, r, http.StatusBadGateway, "User could not be loaded from the API.")
		return
	}

	viewerID, err := viewer.Ensure(h.deps.SessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := common.PageData{
		Title:       user.Name,
		Heading:     user.Name + "'s Posts",
		CurrentPath: r.URL.Path,
		IsDev:       h.deps.IsDev,
	}

	key := core.UserPostsKey(id)
	fetch := func(ctx context.Context) ([]core.Post, error) { return h.deps.API.UserPosts(ctx, id) }
	if _, err := cache.Load(r.Context(), h.deps.Cache, key, fetch); err != nil {
		page.Notice = "Posts could not be loaded from the API."
	}

	table := tables.Bind(h.deps.PostsTableSpec(key), h.deps.Cache)
	h.deps.Tables.Put(viewerID, table)

	if err := components.Page(page, components.UserCard(user), components.TableSection(table.Data())).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
