package catalog

import (
	"testing"

	"github.com/leapstack-labs/leapdash/internal/testutil"
	"github.com/leapstack-labs/leapdash/pkg/tableview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserColumns_FilterNameOrUsername(t *testing.T) {
	eng := tableview.New(UserColumns())
	eng.SetRows(testutil.SampleUsers())

	eng.SetFilterText("bret")
	view := eng.View()
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "Leanne Graham", view.Rows[0].Name)

	eng.SetFilterText("howell")
	view = eng.View()
	require.Len(t, view.Rows, 1)
	assert.Equal(t, 2, view.Rows[0].ID)

	eng.SetFilterText("april.biz")
	assert.Equal(t, 0, eng.View().TotalFiltered, "email is not searchable")
}

func TestPostColumns_OnlyTitleSortable(t *testing.T) {
	eng := tableview.New(PostColumns())
	eng.SetRows(testutil.SamplePosts())

	eng.ToggleSort("body")
	assert.Nil(t, eng.State().Sort)

	eng.ToggleSort("title")
	view := eng.View()
	require.NotEmpty(t, view.Rows)
	assert.Equal(t, "dolorem dolore est", view.Rows[0].Title)
}

func TestSearchable(t *testing.T) {
	assert.True(t, Searchable(UserColumns()))
	assert.True(t, Searchable(PostColumns()))
	assert.False(t, Searchable(CommentColumns()))
}
