package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"

	"github.com/Bahjat/page-analyzer/internal/platform/requestid"
)

// CORS returns middleware that answers preflight requests and sets CORS
// headers for the given origins. A "*" entry allows any origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 || slices.Contains(origins, "*") {
		origins = []string{"*"}
	}

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestid.Header},
		ExposedHeaders: []string{requestid.Header},
	})
	return c.Handler
}
