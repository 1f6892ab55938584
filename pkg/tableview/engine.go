package tableview

import (
	"slices"
	"sync"
)

type options struct {
	pageSizes       []int
	defaultPageSize int
	sort            *SortSpec
}

// Option configures an Engine.
type Option func(*options)

// WithPageSizes sets the allowed page sizes. Non-positive sizes are dropped.
func WithPageSizes(sizes ...int) Option {
	return func(o *options) {
		valid := make([]int, 0, len(sizes))
		for _, s := range sizes {
			if s > 0 && !slices.Contains(valid, s) {
				valid = append(valid, s)
			}
		}
		if len(valid) > 0 {
			o.pageSizes = valid
		}
	}
}

// WithDefaultPageSize sets the initial page size. It must be one of the
// allowed sizes, otherwise the first allowed size is used.
func WithDefaultPageSize(size int) Option {
	return func(o *options) {
		o.defaultPageSize = size
	}
}

// WithInitialSort starts the engine sorted by the given column.
func WithInitialSort(column string, dir SortDirection) Option {
	return func(o *options) {
		o.sort = &SortSpec{Column: column, Direction: dir}
	}
}

// Engine owns the ViewState of one table and derives views from the current
// collection. It is safe for concurrent use.
type Engine[R any] struct {
	mu        sync.Mutex
	columns   []Column[R]
	pageSizes []int
	rows      []R
	state     ViewState
}

// New creates an engine for the given columns with an empty collection.
func New[R any](columns []Column[R], opts ...Option) *Engine[R] {
	o := options{
		pageSizes:       slices.Clone(DefaultPageSizes),
		defaultPageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !slices.Contains(o.pageSizes, o.defaultPageSize) {
		o.defaultPageSize = o.pageSizes[0]
	}

	e := &Engine[R]{
		columns:   slices.Clone(columns),
		pageSizes: o.pageSizes,
		state:     ViewState{PageSize: o.defaultPageSize},
	}
	if o.sort != nil && e.sortable(o.sort.Column) {
		sort := *o.sort
		e.state.Sort = &sort
	}
	return e
}

// SetRows replaces the collection the engine derives from.
func (e *Engine[R]) SetRows(rows []R) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rows = rows
	e.settle()
}

// SetFilterText replaces the filter and returns to the first page.
func (e *Engine[R]) SetFilterText(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.FilterText = text
	e.state.PageIndex = 0
}

// SetSort sorts by column in the given direction. Unknown or non-sortable
// columns are ignored.
func (e *Engine[R]) SetSort(column string, dir SortDirection) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sortable(column) {
		return
	}
	if dir != SortDesc {
		dir = SortAsc
	}
	e.state.Sort = &SortSpec{Column: column, Direction: dir}
	e.settle()
}

// ToggleSort cycles the sort of column: a new column starts ascending, the
// current column flips between ascending and descending. Once sorted, the view
// never returns to collection order.
func (e *Engine[R]) ToggleSort(column string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.sortable(column) {
		return
	}
	dir := SortAsc
	if current, ok := e.state.SortDirectionOf(column); ok {
		dir = current.Opposite()
	}
	e.state.Sort = &SortSpec{Column: column, Direction: dir}
	e.settle()
}

// SetPageSize switches to one of the allowed page sizes, keeping the first
// visible row on the new page. Sizes outside the allowed set are ignored.
func (e *Engine[R]) SetPageSize(size int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !slices.Contains(e.pageSizes, size) || size == e.state.PageSize {
		return
	}
	e.settle()
	first := e.state.PageIndex * e.state.PageSize
	e.state.PageSize = size
	e.state.PageIndex = first / size
	e.settle()
}

// NextPage advances one page. It reports false at the last page.
func (e *Engine[R]) NextPage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	view := e.derive()
	if !view.CanNext {
		return false
	}
	e.state.PageIndex++
	return true
}

// PreviousPage goes back one page. It reports false at the first page.
func (e *Engine[R]) PreviousPage() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	view := e.derive()
	if !view.CanPrev {
		return false
	}
	e.state.PageIndex--
	return true
}

// GoToPage jumps to the zero-based page index, clamped to the valid range.
func (e *Engine[R]) GoToPage(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.PageIndex = index
	e.settle()
}

// View derives the current page. It does not change the engine.
func (e *Engine[R]) View() DerivedView[R] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.derive()
}

// Snapshot derives the current page and returns it with the state it was
// derived from, read under one lock.
func (e *Engine[R]) Snapshot() (DerivedView[R], ViewState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	view, state := Derive(e.rows, e.columns, e.state)
	return view, state.Clone()
}

// State returns a copy of the current view state.
func (e *Engine[R]) State() ViewState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Columns returns the column definitions.
func (e *Engine[R]) Columns() []Column[R] {
	return slices.Clone(e.columns)
}

// AllowedPageSizes returns the page sizes SetPageSize accepts.
func (e *Engine[R]) AllowedPageSizes() []int {
	return slices.Clone(e.pageSizes)
}

func (e *Engine[R]) derive() DerivedView[R] {
	view, _ := Derive(e.rows, e.columns, e.state)
	return view
}

// settle clamps the page index against the current collection.
func (e *Engine[R]) settle() {
	_, e.state = Derive(e.rows, e.columns, e.state)
}

func (e *Engine[R]) sortable(column string) bool {
	for _, col := range e.columns {
		if col.Key == column {
			return col.Sortable && col.Accessor != nil
		}
	}
	return false
}
