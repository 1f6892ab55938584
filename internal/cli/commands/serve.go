package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/leapstack-labs/leapdash/internal/cli/config"
	"github.com/leapstack-labs/leapdash/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the leapdash web dashboard",
		Long: `Start a local web server providing the admin dashboard.

The dashboard provides:
- Users table with filtering and user detail pages
- Posts table with filtering, sorting by title and post detail pages
- Comments per post with an "Add comment" form
- Live table updates when cached data changes`,
		Example: `  # Start the dashboard on the default port
  leapdash serve

  # Start on custom port
  leapdash serve --port 3000

  # Start without auto-opening browser
  leapdash serve --no-browser

  # Read from a local API
  leapdash serve --api-url http://localhost:3000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload browsers when static assets change")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable dev-mode live reload")

	return cmd
}

// serveSettings resolves flag overrides on top of the loaded config.
func serveSettings(cmd *cobra.Command, cfg *config.Config, opts *ServeOptions) ui.Config {
	port := cfg.UI.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	watch := cfg.UI.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	dev := cfg.UI.Dev || watch
	if cmd.Flags().Changed("dev") {
		dev = opts.Dev
	}

	return ui.Config{
		Port:            port,
		Watch:           watch,
		Dev:             dev,
		StaticDir:       cfg.UI.StaticDir,
		SessionSecret:   cfg.UI.SessionSecret,
		TableIdleTTL:    cfg.UI.TableIdleTTL,
		PageSizes:       cfg.Table.PageSizes,
		DefaultPageSize: cfg.Table.DefaultPageSize,
	}
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	serverCfg := serveSettings(cmd, cfg, opts)
	serverCfg.API = client
	serverCfg.Cache = newCache(cfg, logger)
	serverCfg.Logger = logger

	if serverCfg.SessionSecret == config.DefaultSessionSecret {
		logger.Warn("using the built-in session secret, set ui.session_secret for shared deployments")
	}

	server := ui.NewServer(serverCfg)

	autoOpen := cfg.UI.AutoOpen && !opts.NoBrowser

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	go func() {
		select {
		case url := <-server.Ready():
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Dashboard running on %s\n", url)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			if autoOpen {
				openBrowser(url)
			}
		case <-ctx.Done():
		}
	}()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
