//go:build !embed

package frontend

import "net/http"

// Handler returns nil when the binary is built without the embed tag; the
// server falls back to serving nothing (API only) or the -dev directory.
func Handler() http.Handler {
	return nil
}
