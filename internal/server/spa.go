package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// handleSPA serves the built frontend from dir, falling back to index.html
// for client-side routes. API, websocket, and photo paths are never swallowed
// by the fallback; an unknown path there is a real 404.
func handleSPA(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range []string{"/api/", "/ws/", "/photos/"} {
			if strings.HasPrefix(r.URL.Path, prefix) {
				writeError(w, http.StatusNotFound, "not found")
				return
			}
		}

		path := filepath.Join(dir, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
