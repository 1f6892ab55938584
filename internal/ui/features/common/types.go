// Package common provides shared types and utilities for UI features.
package common

// NavItem is one entry of the sidebar navigation.
type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// PageData holds data needed for the page shell rendering.
type PageData struct {
	Title       string
	Heading     string
	CurrentPath string
	// Notice is shown above the content, e.g. when a fetch failed.
	Notice string
	IsDev  bool
}

// HeaderData describes one table header cell.
type HeaderData struct {
	Key      string
	Label    string
	Sortable bool
	// SortDir is "asc", "desc" or empty when the table is not sorted by this column.
	SortDir string
}

// RowData is one rendered table row.
type RowData struct {
	Href  string
	Cells []string
}

// TableData is everything the table templates need to render one table.
type TableData struct {
	ID                string
	Headers           []HeaderData
	Rows              []RowData
	Filterable        bool
	FilterText        string
	FilterPlaceholder string
	PageSizes         []int
	PageSize          int
	PageNumber        int
	PageCount         int
	Total             int
	CanPrev           bool
	CanNext           bool
}

// CommentErrors holds field-level validation messages of the comment form.
type CommentErrors struct {
	Name  string
	Email string
	Body  string
}

// Any reports whether any field failed validation.
func (e CommentErrors) Any() bool {
	return e.Name != "" || e.Email != "" || e.Body != ""
}

// CommentFormData holds data for the add-comment form.
type CommentFormData struct {
	PostID int
	Errors CommentErrors
}
