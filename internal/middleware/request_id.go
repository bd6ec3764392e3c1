package middleware

import (
	"net/http"

	"todoapp/internal/reqctx"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches an id to every request, honoring one supplied by the
// client, and echoes it back in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}

		ctx := reqctx.WithRequestID(r.Context(), rid)
		w.Header().Set(requestIDHeader, rid)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
