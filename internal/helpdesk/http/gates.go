package http

import (
	"context"
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/pkg/httpx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

// RequireCompanyAdmin passes only when the authenticated user sits in the
// resolved company's admin membership set. Team-only or purchase-only
// membership is rejected.
func RequireCompanyAdmin(membership *service.MembershipService) httpx.Middleware {
	return requireGate("admin", membership.IsCompanyAdmin)
}

// RequireCompanyMember passes when the user is in any of the three membership
// sets of the resolved company, active or not. Used for read access where
// admin rights are not required.
func RequireCompanyMember(membership *service.MembershipService) httpx.Middleware {
	return requireGate("member", membership.IsCompanyMember)
}

// requireGate wires a membership predicate between the resolution stage and
// the handler. Missing context values mean a mis-assembled pipeline, which is
// reported as an internal error rather than masked as a client failure.
func requireGate(
	name string,
	check func(ctx context.Context, companyID, userID string) (bool, error),
) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, ok := UserFrom(ctx)
			if !ok {
				slogx.FromContext(ctx).Error("authorization gate reached without identity", "gate", name)
				httpx.WriteJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
				return
			}
			company, ok := CompanyFrom(ctx)
			if !ok {
				slogx.FromContext(ctx).Error("authorization gate reached without target", "gate", name)
				httpx.WriteJSON(w, http.StatusInternalServerError, errorBody("internal server error"))
				return
			}

			allowed, err := check(ctx, company.ID, user.ID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if !allowed {
				writeError(w, r, errForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
