package users

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/ui/features"
	"github.com/leapstack-labs/leapdash/internal/ui/viewer"
	"github.com/leapstack-labs/leapdash/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupTestHandlers(t *testing.T) (*Handlers, *features.TestFixture) {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	return NewHandlers(fixture.Deps), fixture
}

// =============================================================================
// UsersPage Tests
// =============================================================================

func TestUsersPage(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()

	h.UsersPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Users - leapdash</title>",
		`id="table-users"`,
		`placeholder="Filter name or username"`,
		`<a href="/users/1">1</a>`,
		"Leanne Graham",
		"Antonette",
		"UserName",
		"Page 1 of 1",
		`/tables/users/updates`,
		`class="active" aria-current="page">Users</a>`,
	} {
		assert.Contains(t, body, want)
	}

	// The viewer got a session and a mounted table.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, viewer.SessionName, cookies[0].Name)
	assert.Equal(t, 1, fixture.Deps.Tables.Len())
	assert.Equal(t, 1, fixture.API.Hits("/users"))
}

func TestUsersPage_ReusesViewerAndCache(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	viewerID, cookie := fixture.ViewerCookie(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		h.UsersPage(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	}

	_, ok := fixture.Deps.Tables.Get(viewerID, "users")
	assert.True(t, ok)
	assert.Equal(t, 1, fixture.Deps.Tables.Len(), "remount replaces the table")
	assert.Equal(t, 1, fixture.API.Hits("/users"), "second render served from cache")
}

func TestUsersPage_APIFailure(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.FailWith("/users", http.StatusInternalServerError)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()

	h.UsersPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "failures degrade to an empty table")
	body := rec.Body.String()
	assert.Contains(t, body, `class="notice"`)
	assert.Contains(t, body, "No results.")
}

// =============================================================================
// UserPage Tests
// =============================================================================

func TestUserPage(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/users/2", nil), "id", "2")
	rec := httptest.NewRecorder()

	h.UserPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Ervin Howell - leapdash</title>",
		"Ervin Howell&#39;s Posts",
		"Ervin Howell (Antonette)",
		"Suite 879 Victor Plains, Wisokyburgh, 90566-7771",
		`id="table-user-2-posts"`,
		`<a href="/posts/6">6</a>`,
		"dolorem eum magni",
		`placeholder="Filter title"`,
	} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, `<a href="/posts/1">1</a>`, "only this user's posts")
	assert.NotContains(t, body, `aria-current="page"`, "no sidebar item matches a detail page")

	posts, ok := fixture.Deps.Cache.Get(core.UserPostsKey(2))
	require.True(t, ok)
	assert.Len(t, posts, 5)
	_, ok = fixture.Deps.Cache.Get(core.PostsKey())
	assert.False(t, ok, "scoped and unscoped posts are cached separately")
}

func TestUserPage_NotFound(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"unknown user", "42"},
		{"not a number", "abc"},
		{"zero", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupTestHandlers(t)

			req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/users/"+tt.id, nil), "id", tt.id)
			rec := httptest.NewRecorder()

			h.UserPage(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "User not found.")
		})
	}
}

func TestUserPage_APIFailure(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	fixture.API.FailWith("/users/1", http.StatusServiceUnavailable)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/users/1", nil), "id", "1")
	rec := httptest.NewRecorder()

	h.UserPage(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
