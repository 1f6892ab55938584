package tableview

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItemEngine(t *testing.T, n int, opts ...Option) *Engine[item] {
	t.Helper()
	e := New(itemColumns(), opts...)
	e.SetRows(makeItems(n))
	return e
}

func TestNew_Defaults(t *testing.T) {
	e := New(itemColumns())

	state := e.State()
	assert.Equal(t, DefaultPageSize, state.PageSize)
	assert.Equal(t, 0, state.PageIndex)
	assert.Empty(t, state.FilterText)
	assert.Nil(t, state.Sort)
	assert.Equal(t, []int{5, 10, 15, 20}, e.AllowedPageSizes())
}

func TestNew_Options(t *testing.T) {
	t.Run("default size outside allowed set", func(t *testing.T) {
		e := New(itemColumns(), WithPageSizes(25, 50), WithDefaultPageSize(10))
		assert.Equal(t, 25, e.State().PageSize)
		assert.Equal(t, []int{25, 50}, e.AllowedPageSizes())
	})

	t.Run("invalid sizes dropped", func(t *testing.T) {
		e := New(itemColumns(), WithPageSizes(0, -5, 15, 15))
		assert.Equal(t, []int{15}, e.AllowedPageSizes())
	})

	t.Run("initial sort", func(t *testing.T) {
		e := New(itemColumns(), WithInitialSort("title", SortDesc))
		require.NotNil(t, e.State().Sort)
		assert.Equal(t, SortSpec{Column: "title", Direction: SortDesc}, *e.State().Sort)
	})

	t.Run("initial sort on non-sortable column ignored", func(t *testing.T) {
		e := New(itemColumns(), WithInitialSort("tag", SortAsc))
		assert.Nil(t, e.State().Sort)
	})
}

// =============================================================================
// Filter
// =============================================================================

func TestEngine_SetFilterTextResetsPage(t *testing.T) {
	e := newItemEngine(t, 30)
	e.GoToPage(2)
	require.Equal(t, 2, e.State().PageIndex)

	e.SetFilterText("item")
	assert.Equal(t, 0, e.State().PageIndex)
}

func TestEngine_SetFilterTextIdempotent(t *testing.T) {
	once := newItemEngine(t, 30)
	once.SetFilterText("item 2")

	twice := newItemEngine(t, 30)
	twice.SetFilterText("item 2")
	twice.SetFilterText("item 2")

	assert.Equal(t, once.View(), twice.View())
	assert.Equal(t, once.State(), twice.State())
}

func TestEngine_FilterShrinkClampsPage(t *testing.T) {
	rows := makeItems(12)
	rows[0].Tag = "keep"
	rows[5].Tag = "keep"
	rows[11].Tag = "keep"

	e := New(itemColumns(), WithDefaultPageSize(5))
	e.SetRows(rows)
	e.GoToPage(2)
	require.Equal(t, 2, e.State().PageIndex)

	e.SetFilterText("KEEP")

	view := e.View()
	assert.Equal(t, 0, view.PageIndex)
	assert.Equal(t, 1, view.PageCount)
	assert.Equal(t, []int{1, 6, 12}, ids(view.Rows))
}

// =============================================================================
// Sort
// =============================================================================

func TestEngine_ToggleSort(t *testing.T) {
	e := newItemEngine(t, 3)

	steps := []struct {
		column  string
		wantCol string
		wantDir SortDirection
	}{
		{"title", "title", SortAsc},
		{"title", "title", SortDesc},
		{"title", "title", SortAsc},
		{"id", "id", SortAsc},
		{"tag", "id", SortAsc},     // not sortable
		{"missing", "id", SortAsc}, // unknown
		{"id", "id", SortDesc},
	}

	for _, s := range steps {
		e.ToggleSort(s.column)
		state := e.State()
		require.NotNil(t, state.Sort, "after toggling %q", s.column)
		assert.Equal(t, s.wantCol, state.Sort.Column, "after toggling %q", s.column)
		assert.Equal(t, s.wantDir, state.Sort.Direction, "after toggling %q", s.column)
	}
}

func TestEngine_SetSort(t *testing.T) {
	e := newItemEngine(t, 12)

	e.SetSort("id", SortDesc)
	assert.Equal(t, []int{12, 11, 10, 9, 8, 7, 6, 5, 4, 3}, ids(e.View().Rows))

	e.SetSort("tag", SortAsc)
	assert.Equal(t, "id", e.State().Sort.Column, "non-sortable column ignored")
}

func TestEngine_SortKeepsPage(t *testing.T) {
	e := newItemEngine(t, 30, WithDefaultPageSize(5))
	e.GoToPage(3)

	e.ToggleSort("title")
	assert.Equal(t, 3, e.State().PageIndex)
}

func TestEngine_StateIsACopy(t *testing.T) {
	e := newItemEngine(t, 3)
	e.ToggleSort("title")

	state := e.State()
	state.Sort.Direction = SortDesc

	assert.Equal(t, SortAsc, e.State().Sort.Direction)
}

func TestEngine_Snapshot(t *testing.T) {
	e := newItemEngine(t, 12, WithDefaultPageSize(5))
	e.ToggleSort("title")
	e.NextPage()

	view, state := e.Snapshot()
	assert.Equal(t, 1, state.PageIndex)
	assert.Equal(t, view.PageIndex, state.PageIndex)
	assert.Equal(t, []int{6, 7, 8, 9, 10}, ids(view.Rows))

	state.Sort.Direction = SortDesc
	assert.Equal(t, SortAsc, e.State().Sort.Direction, "snapshot state is a copy")
}

func TestEngine_SnapshotMatchesRowsUnderConcurrentGestures(t *testing.T) {
	e := newItemEngine(t, 12)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				e.SetFilterText("item 01")
			} else {
				e.SetFilterText("")
			}
		}
	}()

	for range 500 {
		view, state := e.Snapshot()
		if state.FilterText == "" {
			require.Equal(t, 12, view.TotalFiltered)
		} else {
			require.Equal(t, 1, view.TotalFiltered)
		}
	}
	close(done)
	wg.Wait()
}

// =============================================================================
// Pagination
// =============================================================================

func TestEngine_NextAndPreviousPage(t *testing.T) {
	e := newItemEngine(t, 12, WithDefaultPageSize(5))

	assert.False(t, e.PreviousPage(), "no previous page at start")
	assert.True(t, e.NextPage())
	assert.True(t, e.NextPage())

	view := e.View()
	assert.Equal(t, 2, view.PageIndex)
	assert.Equal(t, 3, view.PageCount)
	assert.Equal(t, []int{11, 12}, ids(view.Rows))
	assert.False(t, view.CanNext)

	assert.False(t, e.NextPage(), "no next page at end")
	assert.Equal(t, 2, e.State().PageIndex)

	assert.True(t, e.PreviousPage())
	assert.Equal(t, 1, e.State().PageIndex)
}

func TestEngine_SetPageSizeKeepsFirstVisibleRow(t *testing.T) {
	tests := []struct {
		name      string
		rows      int
		startSize int
		startPage int
		newSize   int
		wantPage  int
		wantFirst int
	}{
		{"grow", 40, 5, 3, 10, 1, 11},   // row 16 visible on page 1 of size 10 (11..20)
		{"shrink", 40, 20, 1, 5, 4, 21}, // row 21 first on page 4 of size 5
		{"first page", 40, 10, 0, 20, 0, 1},
		{"clamped", 12, 5, 2, 15, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newItemEngine(t, tt.rows, WithDefaultPageSize(tt.startSize))
			e.GoToPage(tt.startPage)

			e.SetPageSize(tt.newSize)

			view := e.View()
			assert.Equal(t, tt.newSize, view.PageSize)
			assert.Equal(t, tt.wantPage, view.PageIndex)
			require.NotEmpty(t, view.Rows)
			assert.Equal(t, tt.wantFirst, view.Rows[0].ID)
		})
	}
}

func TestEngine_SetPageSizeRejectsUnknownSize(t *testing.T) {
	e := newItemEngine(t, 40)
	e.SetPageSize(7)
	assert.Equal(t, DefaultPageSize, e.State().PageSize)
}

func TestEngine_GoToPageClamps(t *testing.T) {
	e := newItemEngine(t, 12, WithDefaultPageSize(5))

	e.GoToPage(99)
	assert.Equal(t, 2, e.State().PageIndex)

	e.GoToPage(-1)
	assert.Equal(t, 0, e.State().PageIndex)
}

func TestEngine_SetRowsClampsPage(t *testing.T) {
	e := newItemEngine(t, 30, WithDefaultPageSize(5))
	e.GoToPage(5)

	e.SetRows(makeItems(7))
	assert.Equal(t, 1, e.State().PageIndex)
	assert.Equal(t, []int{6, 7}, ids(e.View().Rows))
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newItemEngine(t, 100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				switch (i + j) % 4 {
				case 0:
					e.NextPage()
				case 1:
					e.ToggleSort("title")
				case 2:
					e.SetPageSize(DefaultPageSizes[j%len(DefaultPageSizes)])
				default:
					_ = e.View()
				}
			}
		}(i)
	}
	wg.Wait()

	view := e.View()
	assert.GreaterOrEqual(t, view.PageIndex, 0)
	assert.Less(t, view.PageIndex, view.DisplayPageCount())
}
