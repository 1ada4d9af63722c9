// Package mockpages serves a static login page used to exercise the
// analyzer end to end against a local target.
//
// The pages are served from the analyzer's own host, which is usually a
// loopback or private address. The page fetcher and link checker refuse
// those addresses unless ALLOW_PRIVATE_TARGETS=true, so analyzing
// http://localhost:8080/login with the default config fails as unreachable.
package mockpages

import (
	"embed"
	"log/slog"
	"net/http"
)

//go:embed pages/login.html
var pages embed.FS

const loginPage = "pages/login.html"

// RegisterRoutes serves the mock login page on GET /allhtml and GET /login.
func RegisterRoutes(mux *http.ServeMux, logger *slog.Logger) {
	h := serveFile(loginPage, logger)
	mux.HandleFunc("GET /allhtml", h)
	mux.HandleFunc("GET /login", h)
}

func serveFile(name string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data, err := pages.ReadFile(name)
		if err != nil {
			logger.Error("failed to read mock page", "page", name, "error", err)
			http.Error(w, "Failed to read HTML file", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}
}
