package posts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/leapstack-labs/leapdash/internal/api"
	"github.com/leapstack-labs/leapdash/internal/cache"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common/components"
	"github.com/leapstack-labs/leapdash/internal/ui/tables"
	"github.com/leapstack-labs/leapdash/internal/ui/viewer"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the posts feature.
type Handlers struct {
	deps   features.Deps
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: deps.Log().With("feature", "posts"),
	}
}

// PostsPage renders the posts table.
func (h *Handlers) PostsPage(w http.ResponseWriter, r *http.Request) {
	viewerID, err := viewer.Ensure(h.deps.SessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := common.PageData{
		Title:       "Posts",
		Heading:     "Posts",
		CurrentPath: "/posts",
		IsDev:       h.deps.IsDev,
	}
	if _, err := cache.Load(r.Context(), h.deps.Cache, core.PostsKey(), h.deps.API.Posts); err != nil {
		page.Notice = "Posts could not be loaded from the API."
	}

	table := tables.Bind(h.deps.PostsTableSpec(core.PostsKey()), h.deps.Cache)
	h.deps.Tables.Put(viewerID, table)

	if err := components.Page(page, components.TableSection(table.Data())).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// PostPage renders a post, its comments and the add-comment modal.
func (h *Handlers) PostPage(w http.ResponseWriter, r *http.Request) {
	id, ok := features.PathID(r, "id")
	if !ok {
		h.deps.RenderError(w, r, http.StatusNotFound, "Post not found.")
		return
	}

	post, err := h.deps.API.Post(r.Context(), id)
	switch {
	case errors.Is(err, api.ErrNotFound):
		h.deps.RenderError(w, r, http.StatusNotFound, "Post not found.")
		return
	case err != nil:
		h.logger.Warn("fetch post failed", "id", id, "error", err)
		h.deps.RenderError(w, r, http.StatusBadGateway, "Post could not be loaded from the API.")
		return
	}

	viewerID, err := viewer.Ensure(h.deps.SessionStore, w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	page := common.PageData{
		Title:       post.Title,
		Heading:     "Comments on Post - " + strconv.Itoa(id),
		CurrentPath: r.URL.Path,
		IsDev:       h.deps.IsDev,
	}

	fetch := func(ctx context.Context) ([]core.Comment, error) { return h.deps.API.PostComments(ctx, id) }
	if _, err := cache.Load(r.Context(), h.deps.Cache, core.PostCommentsKey(id), fetch); err != nil {
		page.Notice = "Comments could not be loaded from the API."
	}

	table := tables.Bind(h.deps.CommentsTableSpec(id), h.deps.Cache)
	h.deps.Tables.Put(viewerID, table)

	err = components.Page(page,
		components.PostCard(post),
		components.CommentModal(common.CommentFormData{PostID: id}),
		components.TableSection(table.Data()),
	).Render(r.Context(), w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// SubmitComment validates the comment form and appends the comment to the
// cached collection of the post. Nothing is sent to the API.
func (h *Handlers) SubmitComment(w http.ResponseWriter, r *http.Request) {
	id, ok := features.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid post id", http.StatusBadRequest)
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals commentSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	signals = signals.trimmed()

	sse := datastar.NewSSE(w, r)

	if errs := signals.validate(); errs.Any() {
		if err := sse.PatchElementTempl(components.CommentForm(common.CommentFormData{PostID: id, Errors: errs})); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	key := core.PostCommentsKey(id)
	cache.Update(h.deps.Cache, key, func(old []core.Comment) []core.Comment {
		return core.AppendComment(old, id, core.Comment{
			Name:  signals.Name,
			Email: signals.Email,
			Body:  signals.Body,
		})
	})
	h.logger.Debug("comment added", "post", id)

	if err := sse.PatchElementTempl(components.CommentForm(common.CommentFormData{PostID: id})); err != nil {
		_ = sse.ConsoleError(err)
	}
	if err := sse.MarshalAndPatchSignals(map[string]any{
		"isOpen": false,
		"name":   "",
		"email":  "",
		"body":   "",
	}); err != nil {
		_ = sse.ConsoleError(err)
	}

	// Patch the submitter's table right away; other streams follow the cache.
	if viewerID, ok := viewer.ID(h.deps.SessionStore, r); ok {
		if table, ok := h.deps.Tables.Get(viewerID, features.CommentsTableID(id)); ok {
			table.Refresh()
			if err := sse.PatchElementTempl(components.TableBody(table.Data())); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}
