package features

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdash/internal/api"
	"github.com/leapstack-labs/leapdash/internal/cache"
	"github.com/leapstack-labs/leapdash/internal/testutil"
	"github.com/leapstack-labs/leapdash/internal/ui/tables"
	"github.com/leapstack-labs/leapdash/internal/ui/viewer"
)

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	API          *testutil.FakeAPI
	Deps         Deps
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a fake API, a client for it, an empty cache and
// table registry, and a cookie session store.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	fake := testutil.NewFakeAPI(t)

	client, err := api.New(api.Config{BaseURL: fake.URL(), Logger: logger})
	require.NoError(t, err)

	sessionStore := NewTestSessionStore()

	return &TestFixture{
		API: fake,
		Deps: Deps{
			API:             client,
			Cache:           cache.New(cache.Config{Logger: logger}),
			Tables:          tables.NewRegistry(logger),
			SessionStore:    sessionStore,
			Logger:          logger,
			PageSizes:       []int{5, 10, 15, 20},
			DefaultPageSize: 10,
			IsDev:           true,
		},
		SessionStore: sessionStore,
	}
}

// ViewerCookie creates a viewer session and returns its id and the cookie
// that carries it.
func (f *TestFixture) ViewerCookie(t *testing.T) (string, *http.Cookie) {
	t.Helper()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	id, err := viewer.Ensure(f.SessionStore, rec, req)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return id, cookies[0]
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
func RequestWithTimeout(r *http.Request, timeout time.Duration) *http.Request {
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	_ = cancel // context will be cancelled by timeout
	return r.WithContext(ctx)
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
