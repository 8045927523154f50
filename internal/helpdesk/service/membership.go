package service

import (
	"context"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
)

// MembershipService answers "which companies can this user act in". It is a
// pure read over the per-company membership sets; nothing here ever mutates
// membership.
type MembershipService struct {
	Store store.Store
}

// FindCompanies returns the set of companies where the user sits in at least
// one of the membership sets enabled by opts (a role union, not an
// intersection), restricted to active companies when opts.OnlyActive is set.
// Disabling all three role flags yields an empty set, not an error.
func (s *MembershipService) FindCompanies(
	ctx context.Context,
	userID string,
	opts domain.ScopeOptions,
) ([]domain.Company, error) {
	if len(opts.Roles()) == 0 {
		return nil, nil
	}
	return s.Store.Companies().ListCompaniesForUser(ctx, userID, opts)
}

// IsCompanyAdmin reports membership in the company's admin set. Team-only or
// purchase-only membership does not pass.
func (s *MembershipService) IsCompanyAdmin(ctx context.Context, companyID, userID string) (bool, error) {
	return s.Store.Companies().HasRole(ctx, companyID, userID, domain.RoleAdmin)
}

// IsCompanyMember reports membership in any of the company's three sets,
// regardless of whether the company is active.
func (s *MembershipService) IsCompanyMember(ctx context.Context, companyID, userID string) (bool, error) {
	return s.Store.Companies().IsMember(ctx, companyID, userID)
}
