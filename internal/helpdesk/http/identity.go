package http

import (
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/pkg/httpx"
	"github.com/opsdesk/deskd/pkg/jwtx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

// RequireIdentity turns the bearer credential into a hydrated user on the
// request context. It performs exactly one user lookup per request. Every
// failure mode answers 401: a decodable credential whose user has vanished is
// indistinguishable from a forged one.
func RequireIdentity(v jwtx.Verifier, users *service.UserService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := httpx.BearerToken(r)
			if !ok {
				writeError(w, r, errUnauthenticated)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("credential verification failed", "err", err)
				writeError(w, r, errUnauthenticated)
				return
			}

			user, err := users.GetUserByID(ctx, claims.Subject)
			if err != nil {
				log.Warn("credential subject has no user record")
				writeError(w, r, errUnauthenticated)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUser(ctx, user)))
		})
	}
}
