package tableview

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

type keyedRow[R any] struct {
	row R
	key Value
}

// Derive runs the filter → sort → paginate pipeline over rows. It returns the
// derived page and the state with PageSize and PageIndex normalized, so
// 0 <= PageIndex < max(1, PageCount) always holds for the returned state.
// The input slice is never modified.
func Derive[R any](rows []R, columns []Column[R], state ViewState) (DerivedView[R], ViewState) {
	state = state.Clone()
	if state.PageSize <= 0 {
		state.PageSize = DefaultPageSize
	}

	// cases.Caser is stateful; one per call keeps Derive safe for concurrent use.
	fold := cases.Fold()

	filtered := filterRows(rows, columns, state.FilterText, fold)
	if col, ok := sortColumn(columns, state.Sort); ok {
		filtered = sortRows(filtered, col, state.Sort.Direction, fold)
	}

	total := len(filtered)
	pageCount := (total + state.PageSize - 1) / state.PageSize
	state.PageIndex = clampPage(state.PageIndex, pageCount)

	start := min(state.PageIndex*state.PageSize, total)
	end := min(start+state.PageSize, total)
	page := make([]R, end-start)
	copy(page, filtered[start:end])

	return DerivedView[R]{
		Rows:          page,
		TotalFiltered: total,
		PageCount:     pageCount,
		PageIndex:     state.PageIndex,
		PageSize:      state.PageSize,
		CanPrev:       state.PageIndex > 0,
		CanNext:       state.PageIndex < pageCount-1,
	}, state
}

func clampPage(index, pageCount int) int {
	if index >= pageCount {
		index = pageCount - 1
	}
	if index < 0 {
		index = 0
	}
	return index
}

func filterRows[R any](rows []R, columns []Column[R], text string, fold cases.Caser) []R {
	if text == "" {
		return slices.Clone(rows)
	}

	needle := fold.String(text)
	out := make([]R, 0, len(rows))
	for _, r := range rows {
		for _, col := range columns {
			if !col.Searchable || col.Accessor == nil {
				continue
			}
			if strings.Contains(fold.String(col.Accessor(r).String()), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func sortColumn[R any](columns []Column[R], spec *SortSpec) (Column[R], bool) {
	if spec == nil {
		return Column[R]{}, false
	}
	for _, col := range columns {
		if col.Key == spec.Column && col.Sortable && col.Accessor != nil {
			return col, true
		}
	}
	return Column[R]{}, false
}

func sortRows[R any](rows []R, col Column[R], dir SortDirection, fold cases.Caser) []R {
	keyed := make([]keyedRow[R], len(rows))
	for i, r := range rows {
		keyed[i] = keyedRow[R]{row: r, key: col.Accessor(r)}
	}

	slices.SortStableFunc(keyed, func(a, b keyedRow[R]) int {
		c := compareValues(a.key, b.key, fold)
		if dir == SortDesc {
			return -c
		}
		return c
	})

	out := make([]R, len(keyed))
	for i, k := range keyed {
		out[i] = k.row
	}
	return out
}
