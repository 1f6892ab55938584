package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/notifier"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
)

func newTestRouter(t *testing.T, dev bool) (http.Handler, *features.TestFixture, *notifier.Notifier[string]) {
	t.Helper()
	fixture := features.SetupTestFixture(t)
	fixture.Deps.IsDev = dev
	reload := notifier.New[string]()

	r := chi.NewMux()
	require.NoError(t, SetupRoutes(r, fixture.Deps, "", reload))
	return r, fixture, reload
}

func TestSetupRoutes(t *testing.T) {
	h, _, _ := newTestRouter(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{name: "home redirects", method: http.MethodGet, path: "/", want: http.StatusFound},
		{name: "users", method: http.MethodGet, path: "/users", want: http.StatusOK},
		{name: "user", method: http.MethodGet, path: "/users/1", want: http.StatusOK},
		{name: "posts", method: http.MethodGet, path: "/posts", want: http.StatusOK},
		{name: "post", method: http.MethodGet, path: "/posts/1", want: http.StatusOK},
		{name: "unknown user", method: http.MethodGet, path: "/users/404", want: http.StatusNotFound},
		{name: "bad id", method: http.MethodGet, path: "/posts/abc", want: http.StatusNotFound},
		{name: "static", method: http.MethodGet, path: "/static/app.css", want: http.StatusOK},
		{name: "unknown page", method: http.MethodGet, path: "/nope", want: http.StatusNotFound},
		{name: "reload absent outside dev", method: http.MethodGet, path: "/hotreload", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestNotFoundRendersPage(t *testing.T) {
	h, _, _ := newTestRouter(t, false)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Contains(t, rec.Body.String(), "Page not found.")
	assert.Contains(t, rec.Body.String(), `class="sidebar"`)
}

func TestHotReload(t *testing.T) {
	h, _, reload := newTestRouter(t, true)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hotreload", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	// A connected browser is told to reload.
	ch := reload.Subscribe(ReloadKey)
	defer reload.Unsubscribe(ReloadKey, ch)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hotreload", nil))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no reload broadcast")
	}
}

func TestReloadStream(t *testing.T) {
	h, _, reload := newTestRouter(t, true)

	// First connection reloads immediately, then waits for a broadcast.
	req := features.RequestWithTimeout(httptest.NewRequest(http.MethodGet, "/reload", nil), time.Second)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.ServeHTTP(rec, req)
	}()

	require.Eventually(t, func() bool { return reload.Count(ReloadKey) == 1 }, time.Second, 10*time.Millisecond)
	reload.Broadcast(ReloadKey)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("reload stream did not finish")
	}
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "window.location.reload()"))
	assert.Zero(t, reload.Count(ReloadKey))
}
