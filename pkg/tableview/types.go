package tableview

// DefaultPageSizes are the page sizes offered when none are configured.
var DefaultPageSizes = []int{5, 10, 15, 20}

// DefaultPageSize is the page size a new engine starts with.
const DefaultPageSize = 10

// SortDirection specifies the direction for sorting.
type SortDirection string

// Sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Opposite returns the other direction.
func (d SortDirection) Opposite() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// Column declares how one table column reads and treats a record.
type Column[R any] struct {
	Key        string
	Header     string
	Accessor   func(R) Value
	Sortable   bool
	Searchable bool
}

// SortSpec names the single column a view is sorted by.
type SortSpec struct {
	Column    string
	Direction SortDirection
}

// ViewState is the transient state of one table instance.
type ViewState struct {
	FilterText string
	Sort       *SortSpec
	PageIndex  int
	PageSize   int
}

// Clone returns a deep copy of the state.
func (s ViewState) Clone() ViewState {
	if s.Sort != nil {
		sort := *s.Sort
		s.Sort = &sort
	}
	return s
}

// SortDirectionOf returns the direction the view is sorted by column key, and
// false when the view is not sorted by that column.
func (s ViewState) SortDirectionOf(key string) (SortDirection, bool) {
	if s.Sort == nil || s.Sort.Column != key {
		return "", false
	}
	return s.Sort.Direction, true
}

// DerivedView is the computed page of a collection ready for display.
type DerivedView[R any] struct {
	Rows          []R
	TotalFiltered int
	PageCount     int
	PageIndex     int
	PageSize      int
	CanPrev       bool
	CanNext       bool
}

// PageNumber returns the one-based page number for display.
func (v DerivedView[R]) PageNumber() int {
	return v.PageIndex + 1
}

// DisplayPageCount returns the page count for display, never less than one.
func (v DerivedView[R]) DisplayPageCount() int {
	return max(1, v.PageCount)
}
