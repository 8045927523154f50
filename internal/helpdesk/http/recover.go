package http

import (
	"net/http"
	"runtime/debug"

	"github.com/opsdesk/deskd/pkg/httpx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

// Recover converts a handler panic into a logged 500. The process keeps
// serving; a single bad request must never take the instance down.
func Recover() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					slogx.FromContext(r.Context()).Error("handler panic",
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					httpx.WriteJSON(w, http.StatusInternalServerError,
						errorBody("internal server error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
