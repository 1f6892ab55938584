// Package catalog declares the table columns for each entity. The web tables
// and the browse command share these definitions.
package catalog

import (
	"github.com/leapstack-labs/leapdash/pkg/core"
	"github.com/leapstack-labs/leapdash/pkg/tableview"
)

// UserColumns lists users; the filter matches name or username.
func UserColumns() []tableview.Column[core.User] {
	return []tableview.Column[core.User]{
		{Key: "id", Header: "ID", Accessor: func(u core.User) tableview.Value { return tableview.Int(u.ID) }},
		{Key: "name", Header: "Name", Searchable: true, Accessor: func(u core.User) tableview.Value { return tableview.String(u.Name) }},
		{Key: "username", Header: "UserName", Searchable: true, Accessor: func(u core.User) tableview.Value { return tableview.String(u.Username) }},
		{Key: "email", Header: "Email", Accessor: func(u core.User) tableview.Value { return tableview.String(u.Email) }},
	}
}

// PostColumns lists posts; title is sortable and filterable.
func PostColumns() []tableview.Column[core.Post] {
	return []tableview.Column[core.Post]{
		{Key: "id", Header: "ID", Accessor: func(p core.Post) tableview.Value { return tableview.Int(p.ID) }},
		{Key: "title", Header: "Title", Sortable: true, Searchable: true, Accessor: func(p core.Post) tableview.Value { return tableview.String(p.Title) }},
		{Key: "body", Header: "Body", Accessor: func(p core.Post) tableview.Value { return tableview.String(p.Body) }},
	}
}

// CommentColumns lists comments. Comments have no filter.
func CommentColumns() []tableview.Column[core.Comment] {
	return []tableview.Column[core.Comment]{
		{Key: "id", Header: "ID", Accessor: func(c core.Comment) tableview.Value { return tableview.Int(c.ID) }},
		{Key: "email", Header: "Email", Accessor: func(c core.Comment) tableview.Value { return tableview.String(c.Email) }},
		{Key: "name", Header: "Name", Accessor: func(c core.Comment) tableview.Value { return tableview.String(c.Name) }},
		{Key: "body", Header: "Body", Accessor: func(c core.Comment) tableview.Value { return tableview.String(c.Body) }},
	}
}

// Searchable reports whether any column takes part in filtering.
func Searchable[R any](cols []tableview.Column[R]) bool {
	for _, c := range cols {
		if c.Searchable {
			return true
		}
	}
	return false
}
