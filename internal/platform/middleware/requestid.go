package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Bahjat/page-analyzer/internal/platform/requestid"
)

// RequestID is middleware that assigns a unique request ID to each request.
// An incoming X-Request-ID header is reused, otherwise a new UUID v4 is
// generated. The ID is echoed back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestid.Header)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(requestid.Header, id)
		ctx := requestid.NewContext(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
