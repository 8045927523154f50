package http

import (
	"context"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

type ctxKey string

const (
	ctxKeyUser    ctxKey = "user"
	ctxKeyCompany ctxKey = "company"
)

func withUser(ctx context.Context, u domain.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser, u)
}

// UserFrom returns the authenticated user placed on the context by the
// identity middleware.
func UserFrom(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(ctxKeyUser).(domain.User)
	return u, ok
}

func withCompany(ctx context.Context, c domain.Company) context.Context {
	return context.WithValue(ctx, ctxKeyCompany, c)
}

// CompanyFrom returns the target company resolved by a target-resolution
// middleware. The body-resolution stage uses its presence to skip itself.
func CompanyFrom(ctx context.Context) (domain.Company, bool) {
	c, ok := ctx.Value(ctxKeyCompany).(domain.Company)
	return c, ok
}
