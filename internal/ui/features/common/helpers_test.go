package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNavItems(t *testing.T) {
	tests := []struct {
		path       string
		wantActive string
	}{
		{"/users", "/users"},
		{"/posts", "/posts"},
		{"/users/1", ""},
		{"/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			items := NavItems(tt.path)
			assert.Len(t, items, 2)
			for _, item := range items {
				assert.Equal(t, item.Href == tt.wantActive, item.Active, item.Href)
			}
		})
	}
}

func TestSortIndicator(t *testing.T) {
	assert.Equal(t, "▲", SortIndicator("asc"))
	assert.Equal(t, "▼", SortIndicator("desc"))
	assert.Equal(t, "↕", SortIndicator(""))
}

func TestCommentErrors_Any(t *testing.T) {
	assert.False(t, CommentErrors{}.Any())
	assert.True(t, CommentErrors{Email: "Invalid email"}.Any())
}
