//go:build !dev

package resources

import (
	"embed"
	"io/fs"
)

//go:embed static/*
var embedded embed.FS

// staticFS returns the assets embedded in the binary.
func staticFS() (fs.FS, bool) {
	fsys, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return fsys, true
}
