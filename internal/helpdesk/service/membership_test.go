package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/service"
)

func TestFindCompaniesRoleUnion(t *testing.T) {
	st := newTestStore(t)
	svc := &service.MembershipService{Store: st}
	ctx := context.Background()

	alpha := seedCompany(t, st, "alpha", true)
	beta := seedCompany(t, st, "beta", true)
	gamma := seedCompany(t, st, "gamma", true)

	user := seedUser(t, st, "union@example.com")
	seedMember(t, st, alpha, user, domain.RoleAdmin)
	seedMember(t, st, beta, user, domain.RoleTeam)
	seedMember(t, st, gamma, user, domain.RolePurchase)

	// All flags on: every company appears once.
	companies, err := svc.FindCompanies(ctx, user.ID, domain.DefaultScopeOptions())
	require.NoError(t, err)
	require.Len(t, companies, 3)

	// Admin only: beta and gamma drop out.
	opts := domain.ScopeOptions{Admin: true, OnlyActive: true}
	companies, err = svc.FindCompanies(ctx, user.ID, opts)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, alpha.ID, companies[0].ID)
}

func TestFindCompaniesAllFlagsFalse(t *testing.T) {
	st := newTestStore(t)
	svc := &service.MembershipService{Store: st}

	company := seedCompany(t, st, "alpha", true)
	user := seedUser(t, st, "none@example.com")
	seedMember(t, st, company, user, domain.RoleAdmin, domain.RoleTeam, domain.RolePurchase)

	companies, err := svc.FindCompanies(context.Background(), user.ID, domain.ScopeOptions{OnlyActive: true})
	require.NoError(t, err)
	require.Empty(t, companies)
}

func TestFindCompaniesMultipleRolesNoDuplicates(t *testing.T) {
	st := newTestStore(t)
	svc := &service.MembershipService{Store: st}

	company := seedCompany(t, st, "alpha", true)
	user := seedUser(t, st, "multi@example.com")
	seedMember(t, st, company, user, domain.RoleAdmin, domain.RolePurchase)

	companies, err := svc.FindCompanies(context.Background(), user.ID, domain.DefaultScopeOptions())
	require.NoError(t, err)
	require.Len(t, companies, 1)
}

func TestFindCompaniesOnlyActive(t *testing.T) {
	st := newTestStore(t)
	svc := &service.MembershipService{Store: st}
	ctx := context.Background()

	active := seedCompany(t, st, "active", true)
	dormant := seedCompany(t, st, "dormant", false)

	user := seedUser(t, st, "active@example.com")
	seedMember(t, st, active, user, domain.RoleTeam)
	seedMember(t, st, dormant, user, domain.RoleTeam)

	companies, err := svc.FindCompanies(ctx, user.ID, domain.DefaultScopeOptions())
	require.NoError(t, err)
	require.Len(t, companies, 1)
	require.Equal(t, active.ID, companies[0].ID)

	opts := domain.DefaultScopeOptions()
	opts.OnlyActive = false
	companies, err = svc.FindCompanies(ctx, user.ID, opts)
	require.NoError(t, err)
	require.Len(t, companies, 2)
}

func TestIsCompanyAdmin(t *testing.T) {
	st := newTestStore(t)
	svc := &service.MembershipService{Store: st}
	ctx := context.Background()

	company := seedCompany(t, st, "alpha", true)
	admin := seedUser(t, st, "admin@example.com")
	teamOnly := seedUser(t, st, "team@example.com")
	outsider := seedUser(t, st, "out@example.com")

	seedMember(t, st, company, admin, domain.RoleAdmin)
	seedMember(t, st, company, teamOnly, domain.RoleTeam, domain.RolePurchase)

	ok, err := svc.IsCompanyAdmin(ctx, company.ID, admin.ID)
	require.NoError(t, err)
	require.True(t, ok)

	// Team plus purchase membership still does not grant admin.
	ok, err = svc.IsCompanyAdmin(ctx, company.ID, teamOnly.ID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.IsCompanyAdmin(ctx, company.ID, outsider.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestIsCompanyMemberIgnoresActivity(t *testing.T) {
	st := newTestStore(t)
	svc := &service.MembershipService{Store: st}
	ctx := context.Background()

	dormant := seedCompany(t, st, "dormant", false)
	user := seedUser(t, st, "member@example.com")
	seedMember(t, st, dormant, user, domain.RolePurchase)

	ok, err := svc.IsCompanyMember(ctx, dormant.ID, user.ID)
	require.NoError(t, err)
	require.True(t, ok)

	other := seedUser(t, st, "other@example.com")
	ok, err = svc.IsCompanyMember(ctx, dormant.ID, other.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
