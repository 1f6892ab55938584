package gestures

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common/components"
	"github.com/leapstack-labs/leapdash/internal/ui/tables"
	"github.com/leapstack-labs/leapdash/internal/ui/viewer"
	"github.com/starfederation/datastar-go/datastar"
)

var errTableGone = errors.New("table is no longer available, reload the page")

// Handlers provides HTTP handlers for table gestures.
type Handlers struct {
	deps   features.Deps
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps features.Deps) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: deps.Log().With("feature", "gestures"),
	}
}

// Filter replaces the table's filter text with the "filter" signal.
func (h *Handlers) Filter(w http.ResponseWriter, r *http.Request) {
	h.gesture(w, r, func(t tables.Table, s tableSignals) {
		t.Filter(s.Filter)
	})
}

// Sort toggles the sort of the column in the URL.
func (h *Handlers) Sort(w http.ResponseWriter, r *http.Request) {
	column := chi.URLParam(r, "column")
	h.gesture(w, r, func(t tables.Table, _ tableSignals) {
		t.ToggleSort(column)
	})
}

// PageSize applies the "pageSize" signal.
func (h *Handlers) PageSize(w http.ResponseWriter, r *http.Request) {
	h.gesture(w, r, func(t tables.Table, s tableSignals) {
		t.SetPageSize(int(s.PageSize))
	})
}

// Next moves to the next page.
func (h *Handlers) Next(w http.ResponseWriter, r *http.Request) {
	h.gesture(w, r, func(t tables.Table, _ tableSignals) {
		t.Next()
	})
}

// Prev moves to the previous page.
func (h *Handlers) Prev(w http.ResponseWriter, r *http.Request) {
	h.gesture(w, r, func(t tables.Table, _ tableSignals) {
		t.Prev()
	})
}

// gesture reads the table signals, applies fn to the viewer's table and
// patches the table body. A table that is gone (swept or never mounted)
// makes the browser reload the page.
func (h *Handlers) gesture(w http.ResponseWriter, r *http.Request, fn func(tables.Table, tableSignals)) {
	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals tableSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	table, ok := h.lookup(r)
	sse := datastar.NewSSE(w, r)
	if !ok {
		_ = sse.ExecuteScript("window.location.reload()")
		return
	}

	fn(table, signals)

	if err := sse.PatchElementTempl(components.TableBody(table.Data())); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Updates is the long-lived SSE endpoint of a table. It re-reads the
// collection and patches the table body whenever the cache key changes.
// It sends nothing initially unless the collection changed since the page
// was rendered.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "table")
	viewerID, ok := viewer.ID(h.deps.SessionStore, r)
	sse := datastar.NewSSE(w, r)
	if !ok {
		_ = sse.ConsoleError(errTableGone)
		return
	}

	release, ok := h.deps.Tables.Hold(viewerID, id)
	if !ok {
		_ = sse.ConsoleError(errTableGone)
		return
	}
	defer release()

	table, ok := h.deps.Tables.Get(viewerID, id)
	if !ok {
		_ = sse.ConsoleError(errTableGone)
		return
	}

	// Subscribe to updates
	updates, cancel := h.deps.Cache.Subscribe(table.Key())
	defer cancel()

	// Catch a revalidation that finished between render and subscribe
	before := table.Data()
	table.Refresh()
	if after := table.Data(); !reflect.DeepEqual(before, after) {
		if err := sse.PatchElementTempl(components.TableBody(after)); err != nil {
			_ = sse.ConsoleError(err)
		}
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			table.Refresh()
			if err := sse.PatchElementTempl(components.TableBody(table.Data())); err != nil {
				_ = sse.ConsoleError(err)
				// Don't return - keep trying on next update
			}
		}
	}
}

func (h *Handlers) lookup(r *http.Request) (tables.Table, bool) {
	viewerID, ok := viewer.ID(h.deps.SessionStore, r)
	if !ok {
		return nil, false
	}
	return h.deps.Tables.Get(viewerID, chi.URLParam(r, "table"))
}
