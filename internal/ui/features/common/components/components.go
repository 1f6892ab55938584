// Package components renders the dashboard's HTML fragments as templ
// components so handlers can stream them through datastar.
package components

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/internal/ui/resources"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("components").
		Funcs(template.FuncMap{
			"address":       core.FormatAddress,
			"sortIndicator": common.SortIndicator,
			"static":        resources.StaticPath,
		}).
		ParseFS(templateFS, "templates/*.html"),
)

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}

type pageView struct {
	common.PageData
	Nav  []common.NavItem
	Body template.HTML
}

// Page renders a full document: sidebar shell, heading and the given body
// components in order.
func Page(data common.PageData, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		for _, c := range body {
			if err := c.Render(ctx, &buf); err != nil {
				return err
			}
		}
		return templates.ExecuteTemplate(w, "page", pageView{
			PageData: data,
			Nav:      common.NavItems(data.CurrentPath),
			// Fragments come from this package's own escaped templates.
			Body: template.HTML(buf.String()), //nolint:gosec
		})
	})
}

// Message renders a short paragraph, used for empty and error pages.
func Message(text string) templ.Component {
	return render("message", text)
}

// TableSection renders a table with its toolbar and the update stream
// subscription. Only the inner body is patched afterwards.
func TableSection(data common.TableData) templ.Component {
	return render("table-section", data)
}

// TableBody renders the patchable part of a table, identified by
// "table-{id}".
func TableBody(data common.TableData) templ.Component {
	return render("table-body", data)
}

// UserCard renders a user's profile.
func UserCard(u core.User) templ.Component {
	return render("user-card", u)
}

// PostCard renders a post with a link to its author.
func PostCard(p core.Post) templ.Component {
	return render("post-card", p)
}

// CommentModal renders the add-comment button and its modal dialog.
func CommentModal(data common.CommentFormData) templ.Component {
	return render("comment-modal", data)
}

// CommentForm renders the add-comment form, identified by "comment-form".
func CommentForm(data common.CommentFormData) templ.Component {
	return render("comment-form", data)
}
