// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/leapstack-labs/leapdash/internal/notifier"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
	gesturesFeature "github.com/leapstack-labs/leapdash/internal/ui/features/gestures"
	homeFeature "github.com/leapstack-labs/leapdash/internal/ui/features/home"
	postsFeature "github.com/leapstack-labs/leapdash/internal/ui/features/posts"
	usersFeature "github.com/leapstack-labs/leapdash/internal/ui/features/users"
	"github.com/leapstack-labs/leapdash/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// ReloadKey is the notifier key browsers in dev mode listen on.
const ReloadKey = "reload"

// SetupRoutes configures all routes for the UI server. reload may be nil
// outside dev mode.
func SetupRoutes(
	router chi.Router,
	deps features.Deps,
	staticDir string,
	reload *notifier.Notifier[string],
) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev && reload != nil {
		setupReload(router, reload)
	}

	// Static assets
	router.Handle("/static/*", resources.Handler(staticDir))

	// Feature routes
	if err := homeFeature.SetupRoutes(router); err != nil {
		return err
	}

	if err := usersFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := postsFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := gesturesFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		deps.RenderError(w, r, http.StatusNotFound, "Page not found.")
	})

	return nil
}

// setupReload serves the dev-mode reload stream. The first browser to
// connect after a restart reloads once so it picks up the new binary.
func setupReload(router chi.Router, reload *notifier.Notifier[string]) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		ch := reload.Subscribe(ReloadKey)
		defer reload.Unsubscribe(ReloadKey, ch)

		sse := datastar.NewSSE(w, r)
		reloadPage := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reloadPage)
		select {
		case <-ch:
			reloadPage()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		reload.Broadcast(ReloadKey)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
