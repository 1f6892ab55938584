package common

// NavItems returns the sidebar entries with the one matching currentPath
// marked active.
func NavItems(currentPath string) []NavItem {
	items := []NavItem{
		{Label: "Users", Href: "/users"},
		{Label: "Posts", Href: "/posts"},
	}
	for i := range items {
		items[i].Active = items[i].Href == currentPath
	}
	return items
}

// SortIndicator returns the arrow shown next to a sorted column header.
func SortIndicator(dir string) string {
	switch dir {
	case "asc":
		return "▲"
	case "desc":
		return "▼"
	default:
		return "↕"
	}
}
