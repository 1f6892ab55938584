package posts

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/cache"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
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

func commentRequest(postID, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/posts/"+postID+"/comments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return features.RequestWithPathParam(req, "id", postID)
}

// =============================================================================
// PostsPage Tests
// =============================================================================

func TestPostsPage(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	rec := httptest.NewRecorder()

	h.PostsPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Posts - leapdash</title>",
		`id="table-posts"`,
		`placeholder="Filter title"`,
		`<a href="/posts/10">10</a>`,
		"Page 1 of 2",
		"12 rows",
		`class="sort"`,
	} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, `<a href="/posts/11">11</a>`, "second page not rendered")
}

// =============================================================================
// PostPage Tests
// =============================================================================

func TestPostPage(t *testing.T) {
	h, fixture := setupTestHandlers(t)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/posts/1", nil), "id", "1")
	rec := httptest.NewRecorder()

	h.PostPage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	for _, want := range []string{
		"Comments on Post - 1",
		`id="post-card"`,
		"sunt aut facere",
		`href="/users/1"`,
		`id="table-post-1-comments"`,
		"Eliseo@gardner.biz",
		`id="comment-form"`,
		"Add comment",
		"3 rows",
	} {
		assert.Contains(t, body, want)
	}
	assert.NotContains(t, body, `data-bind="filter"`, "comments have no filter")
	assert.NotContains(t, body, "Lew@alysha.tv", "comments of other posts are excluded")

	_, ok := fixture.Deps.Cache.Get(core.PostCommentsKey(1))
	assert.True(t, ok)
}

func TestPostPage_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/posts/999", nil), "id", "999")
	rec := httptest.NewRecorder()

	h.PostPage(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Post not found.")
}

// =============================================================================
// SubmitComment Tests
// =============================================================================

func TestSubmitComment_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     []string
		dontWant []string
	}{
		{
			name: "all fields missing",
			body: `{"isOpen":true,"name":"","email":"","body":""}`,
			want: []string{"Name required", "Email required", "Body required"},
		},
		{
			name:     "bad email",
			body:     `{"isOpen":true,"name":"Ada","email":"nope","body":"hi"}`,
			want:     []string{"Invalid email"},
			dontWant: []string{"Name required", "Body required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, fixture := setupTestHandlers(t)
			fixture.Deps.Cache.Seed(core.PostCommentsKey(1), fixture.API.Comments[:3])

			rec := httptest.NewRecorder()
			h.SubmitComment(rec, commentRequest("1", tt.body))

			out := rec.Body.String()
			assert.Contains(t, out, "event: datastar-patch-elements")
			assert.Contains(t, out, `id="comment-form"`)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
			for _, dontWant := range tt.dontWant {
				assert.NotContains(t, out, dontWant)
			}
			assert.NotContains(t, out, "datastar-patch-signals", "modal stays open")

			comments, _ := cache.Typed[core.Comment](fixture.Deps.Cache, core.PostCommentsKey(1))
			assert.Len(t, comments, 3, "no mutation on invalid input")
		})
	}
}

func TestSubmitComment_AppendsAndClosesModal(t *testing.T) {
	h, fixture := setupTestHandlers(t)
	_, cookie := fixture.ViewerCookie(t)

	// Mount the post page so the viewer owns the comments table.
	pageReq := features.RequestWithPathParam(httptest.NewRequest(http.MethodGet, "/posts/1", nil), "id", "1")
	pageReq.AddCookie(cookie)
	h.PostPage(httptest.NewRecorder(), pageReq)

	updates, cancel := fixture.Deps.Cache.Subscribe(core.PostCommentsKey(1))
	defer cancel()

	req := commentRequest("1", `{"isOpen":true,"name":" Ada ","email":"ada@example.com","body":"Nice post"}`)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()

	h.SubmitComment(rec, req)

	out := rec.Body.String()
	assert.Contains(t, out, "event: datastar-patch-signals")
	assert.Contains(t, out, `"isOpen":false`)
	assert.Contains(t, out, `id="table-post-1-comments"`)
	assert.Contains(t, out, "ada@example.com")
	assert.NotContains(t, out, "field-error")

	select {
	case <-updates:
	default:
		t.Error("cache subscribers were not notified")
	}

	comments, ok := cache.Typed[core.Comment](fixture.Deps.Cache, core.PostCommentsKey(1))
	require.True(t, ok)
	require.Len(t, comments, 4)
	added := comments[3]
	assert.Equal(t, 4, added.ID, "max id + 1")
	assert.Equal(t, 1, added.PostID)
	assert.Equal(t, "Ada", added.Name, "fields are trimmed")
	assert.Equal(t, 1, fixture.API.Hits("/posts/1/comments"), "only the page load reached the API")
}

func TestSubmitComment_InvalidPayload(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.SubmitComment(rec, commentRequest("1", `{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
