// Package resources provides static asset handling for the UI server.
package resources

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
)

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// Handler returns an HTTP handler for serving static files under /static/.
// Files in overrideDir, when set, shadow the bundled assets of the same
// name so a deployment can restyle the dashboard without a rebuild.
func Handler(overrideDir string) http.Handler {
	fsys, immutable := staticFS()
	if overrideDir != "" {
		fsys = overlayFS{primary: os.DirFS(overrideDir), fallback: fsys}
		immutable = false
	}
	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(fsys)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if immutable {
			// Cache embedded static assets for 1 year (they never change in prod)
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		}
		fileServer.ServeHTTP(w, r)
	})
}

// StaticPath returns the URL path for a static asset.
func StaticPath(path string) string {
	return "/static/" + path
}

// overlayFS opens from primary first and falls back when the file is
// missing there.
type overlayFS struct {
	primary  fs.FS
	fallback fs.FS
}

func (o overlayFS) Open(name string) (fs.File, error) {
	f, err := o.primary.Open(name)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return o.fallback.Open(name)
	}
	return nil, err
}
