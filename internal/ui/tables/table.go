// Package tables binds view engines to cached collections and keeps one
// table instance per viewer and table id.
package tables

import (
	"strconv"

	"github.com/leapstack-labs/leapdash/internal/cache"
	"github.com/leapstack-labs/leapdash/internal/ui/features/common"
	"github.com/leapstack-labs/leapdash/pkg/core"
	"github.com/leapstack-labs/leapdash/pkg/tableview"
)

// Table is a rendered table whose rows come from a cache key. Gesture
// handlers drive it without knowing the record type.
type Table interface {
	ID() string
	Key() core.QueryKey
	// Refresh re-reads the collection from the cache.
	Refresh()
	Filter(text string)
	ToggleSort(column string)
	SetPageSize(size int)
	Next() bool
	Prev() bool
	Data() common.TableData
}

// Spec describes one table.
type Spec[R any] struct {
	ID                string
	Key               core.QueryKey
	Columns           []tableview.Column[R]
	Link              func(R) string
	FilterPlaceholder string
	PageSizes         []int
	DefaultPageSize   int
}

type bound[R any] struct {
	spec   Spec[R]
	engine *tableview.Engine[R]
	store  *cache.Store
}

// Bind creates a table over the collection cached under spec.Key. The table
// starts from default view state and reads the current collection.
func Bind[R any](spec Spec[R], store *cache.Store) Table {
	var opts []tableview.Option
	if len(spec.PageSizes) > 0 {
		opts = append(opts, tableview.WithPageSizes(spec.PageSizes...))
	}
	if spec.DefaultPageSize > 0 {
		opts = append(opts, tableview.WithDefaultPageSize(spec.DefaultPageSize))
	}

	t := &bound[R]{
		spec:   spec,
		engine: tableview.New(spec.Columns, opts...),
		store:  store,
	}
	t.Refresh()
	return t
}

func (t *bound[R]) ID() string         { return t.spec.ID }
func (t *bound[R]) Key() core.QueryKey { return t.spec.Key }

func (t *bound[R]) Refresh() {
	rows, _ := cache.Typed[R](t.store, t.spec.Key)
	t.engine.SetRows(rows)
}

func (t *bound[R]) Filter(text string)       { t.engine.SetFilterText(text) }
func (t *bound[R]) ToggleSort(column string) { t.engine.ToggleSort(column) }
func (t *bound[R]) SetPageSize(size int)     { t.engine.SetPageSize(size) }
func (t *bound[R]) Next() bool               { return t.engine.NextPage() }
func (t *bound[R]) Prev() bool               { return t.engine.PreviousPage() }

func (t *bound[R]) Data() common.TableData {
	view, state := t.engine.Snapshot()
	columns := t.engine.Columns()

	headers := make([]common.HeaderData, len(columns))
	searchable := false
	for i, col := range columns {
		headers[i] = common.HeaderData{Key: col.Key, Label: col.Header, Sortable: col.Sortable}
		if dir, ok := state.SortDirectionOf(col.Key); ok {
			headers[i].SortDir = string(dir)
		}
		searchable = searchable || col.Searchable
	}

	rows := make([]common.RowData, len(view.Rows))
	for i, r := range view.Rows {
		cells := make([]string, len(columns))
		for j, col := range columns {
			cells[j] = col.Accessor(r).String()
		}
		rows[i] = common.RowData{Cells: cells}
		if t.spec.Link != nil {
			rows[i].Href = t.spec.Link(r)
		}
	}

	return common.TableData{
		ID:                t.spec.ID,
		Headers:           headers,
		Rows:              rows,
		Filterable:        searchable,
		FilterText:        state.FilterText,
		FilterPlaceholder: t.spec.FilterPlaceholder,
		PageSizes:         t.engine.AllowedPageSizes(),
		PageSize:          view.PageSize,
		PageNumber:        view.PageNumber(),
		PageCount:         view.DisplayPageCount(),
		Total:             view.TotalFiltered,
		CanPrev:           view.CanPrev,
		CanNext:           view.CanNext,
	}
}

// EntityLink returns a Link function pointing at the detail page of each row.
func EntityLink[R any](entity core.Entity, id func(R) int) func(R) string {
	return func(r R) string {
		return "/" + string(entity) + "/" + strconv.Itoa(id(r))
	}
}
