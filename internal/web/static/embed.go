// Package static holds the bundled single-page UI.
package static

import (
	"embed"
	"errors"
	"io/fs"
	"path"
	"strings"
)

//go:embed all:dist/*
var distFS embed.FS

const indexFile = "index.html"

var dist = mustSub(distFS, "dist")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// Open returns the asset for a request path and the name it resolved to.
// Unknown paths and directories resolve to index.html so client-side routes load the UI.
func Open(urlPath string) (fs.File, string, error) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = indexFile
	}

	if f, err := dist.Open(name); err == nil {
		if stat, err := f.Stat(); err == nil && !stat.IsDir() {
			return f, name, nil
		}
		f.Close()
	}

	f, err := dist.Open(indexFile)
	if err != nil {
		return nil, "", errors.Join(fs.ErrNotExist, err)
	}
	return f, indexFile, nil
}
