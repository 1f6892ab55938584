//go:build dev

package resources

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// getStaticDir derives the absolute path to the static directory
// relative to this source file, regardless of where the binary is run from.
func getStaticDir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	// static_dev.go is in internal/ui/resources/, static/ is a sibling directory
	return filepath.Join(filepath.Dir(filename), "static")
}

// staticFS serves assets straight from the source tree so stylesheet edits
// show up on reload. Use Cmd+Shift+R to force refresh when needed.
func staticFS() (fs.FS, bool) {
	staticDir := getStaticDir()
	slog.Info("static assets served from filesystem", "path", staticDir)
	return os.DirFS(staticDir), false
}
