//go:build embed

package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

// The browser terminal bundle, compiled in with -tags embed. The build
// expects the frontend's production output in static/ before tagging.
//
//go:embed static/*
var bundle embed.FS

// Handler serves the embedded terminal bundle.
func Handler() http.Handler {
	sub, err := fs.Sub(bundle, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
