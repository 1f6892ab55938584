package features

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapdash/internal/catalog"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common/components"
	"github.com/leapstack-labs/leapdash/internal/ui/tables"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// UsersTableSpec is the table on the users page.
func (d Deps) UsersTableSpec() tables.Spec[core.User] {
	return tables.Spec[core.User]{
		ID:                "users",
		Key:               core.UsersKey(),
		Columns:           catalog.UserColumns(),
		Link:              tables.EntityLink(core.EntityUsers, func(u core.User) int { return u.ID }),
		FilterPlaceholder: "Filter name or username",
		PageSizes:         d.PageSizes,
		DefaultPageSize:   d.DefaultPageSize,
	}
}

// PostsTableSpec is a posts table over key: all posts, or one user's posts.
func (d Deps) PostsTableSpec(key core.QueryKey) tables.Spec[core.Post] {
	id := "posts"
	if key.Scoped() {
		id = fmt.Sprintf("user-%d-posts", key.ParentID)
	}
	return tables.Spec[core.Post]{
		ID:                id,
		Key:               key,
		Columns:           catalog.PostColumns(),
		Link:              tables.EntityLink(core.EntityPosts, func(p core.Post) int { return p.ID }),
		FilterPlaceholder: "Filter title",
		PageSizes:         d.PageSizes,
		DefaultPageSize:   d.DefaultPageSize,
	}
}

// CommentsTableSpec is the comments table of one post.
func (d Deps) CommentsTableSpec(postID int) tables.Spec[core.Comment] {
	return tables.Spec[core.Comment]{
		ID:              CommentsTableID(postID),
		Key:             core.PostCommentsKey(postID),
		Columns:         catalog.CommentColumns(),
		PageSizes:       d.PageSizes,
		DefaultPageSize: d.DefaultPageSize,
	}
}

// CommentsTableID names the comments table of a post.
func CommentsTableID(postID int) string {
	return fmt.Sprintf("post-%d-comments", postID)
}

// PathID parses a positive integer URL parameter.
func PathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// RenderError writes a full error page with the given status.
func (d Deps) RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	page := common.PageData{
		Title:       http.StatusText(status),
		Heading:     http.StatusText(status),
		CurrentPath: r.URL.Path,
		IsDev:       d.IsDev,
	}
	if err := components.Page(page, components.Message(message)).Render(r.Context(), w); err != nil {
		d.Log().Error("render error page", "error", err)
	}
}
