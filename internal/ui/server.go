// Package ui provides the web dashboard for browsing users, posts and
// comments.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapdash/internal/api"
	"github.com/leapstack-labs/leapdash/internal/cache"
	"github.com/leapstack-labs/leapdash/internal/notifier"
	"github.com/leapstack-labs/leapdash/internal/ui/features"
	"github.com/leapstack-labs/leapdash/internal/ui/resources"
	"github.com/leapstack-labs/leapdash/internal/ui/router"
	"github.com/leapstack-labs/leapdash/internal/ui/tables"
	"golang.org/x/sync/errgroup"
)

// Defaults applied by NewServer to zero Config fields.
const (
	DefaultTableIdleTTL = 30 * time.Minute
	sweepInterval       = time.Minute
)

// Server is the main UI server.
type Server struct {
	deps      features.Deps
	port      int
	watch     bool
	staticDir string
	idleTTL   time.Duration
	logger    *slog.Logger
	reload    *notifier.Notifier[string]
	ready     chan string
}

// Config holds configuration for the UI server.
type Config struct {
	API             *api.Client
	Cache           *cache.Store
	Port            int
	Watch           bool
	StaticDir       string
	SessionSecret   string
	Logger          *slog.Logger
	TableIdleTTL    time.Duration
	PageSizes       []int
	DefaultPageSize int
	Dev             bool
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	idleTTL := cfg.TableIdleTTL
	if idleTTL <= 0 {
		idleTTL = DefaultTableIdleTTL
	}

	return &Server{
		deps: features.Deps{
			API:             cfg.API,
			Cache:           cfg.Cache,
			Tables:          tables.NewRegistry(logger),
			SessionStore:    sessionStore,
			Logger:          logger,
			PageSizes:       cfg.PageSizes,
			DefaultPageSize: cfg.DefaultPageSize,
			IsDev:           cfg.Dev,
		},
		port:      cfg.Port,
		watch:     cfg.Watch,
		staticDir: cfg.StaticDir,
		idleTTL:   idleTTL,
		logger:    logger,
		reload:    notifier.New[string](),
		ready:     make(chan string, 1),
	}
}

// Handler builds the routed handler with the server's middleware stack.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.deps, s.staticDir, s.reload); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	url := fmt.Sprintf("http://localhost:%d", port)
	s.logger.Info("starting UI server", "addr", url)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start file watcher if enabled
	if s.watch {
		eg.Go(func() error {
			return s.watchFiles(egctx)
		})
	}

	// Drop tables of viewers that went away
	eg.Go(func() error {
		return s.deps.Tables.Run(egctx, s.idleTTL, sweepInterval)
	})

	// Start HTTP server
	eg.Go(func() error {
		s.ready <- url
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		err := srv.Shutdown(shutdownCtx)
		if s.deps.Cache != nil {
			s.deps.Cache.Wait()
		}
		return err
	})

	return eg.Wait()
}

// Ready yields the server's base URL once it accepts connections.
func (s *Server) Ready() <-chan string {
	return s.ready
}

// IsDev reports whether dev-mode hot reload is enabled.
func (s *Server) IsDev() bool {
	return s.deps.IsDev
}

// Tables returns the registry of mounted tables.
func (s *Server) Tables() *tables.Registry {
	return s.deps.Tables
}

// watchDir is the directory whose asset edits trigger a browser reload.
func (s *Server) watchDir() string {
	if s.staticDir != "" {
		return s.staticDir
	}
	return resources.StaticDirectoryPath
}

// watchFiles watches static assets and reloads connected browsers when
// they change.
func (s *Server) watchFiles(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	dir := s.watchDir()
	if err := watchDirRecursive(watcher, dir); err != nil {
		s.logger.Error("failed to watch static directory", "dir", dir, "error", err)
		// Don't fail - continue without watching
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !isAsset(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("asset changed, reloading browsers", "file", event.Name)
				s.reload.Broadcast(router.ReloadKey)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

func isAsset(name string) bool {
	switch filepath.Ext(name) {
	case ".css", ".js", ".html", ".svg":
		return true
	}
	return false
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
