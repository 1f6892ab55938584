// Package tableview derives paginated, filtered and sorted views over typed
// record collections.
//
// The pipeline is always filter → sort → paginate. Derive is the pure form of
// the pipeline; Engine wraps it with the transient ViewState owned by one
// table instance and the mutators that drive it (filter text, sort toggling,
// page size, page navigation).
//
// Columns read records through typed accessors:
//
//	cols := []tableview.Column[core.Post]{
//		{Key: "id", Header: "ID", Accessor: func(p core.Post) tableview.Value { return tableview.Int(p.ID) }},
//		{Key: "title", Header: "Title", Sortable: true, Searchable: true,
//			Accessor: func(p core.Post) tableview.Value { return tableview.String(p.Title) }},
//	}
//	eng := tableview.New(cols)
//	eng.SetRows(posts)
//	eng.ToggleSort("title")
//	view := eng.View()
package tableview
