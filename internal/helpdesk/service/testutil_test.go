package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/internal/helpdesk/store/drivers/sqlite"
	"github.com/opsdesk/deskd/pkg/idx"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seedUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Name:      email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func seedCompany(t *testing.T, st store.Store, name string, active bool) domain.Company {
	t.Helper()

	now := time.Now().UTC()
	c := domain.Company{
		ID:        idx.New().String(),
		Name:      name,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Companies().CreateCompany(context.Background(), c))
	return c
}

func seedMember(t *testing.T, st store.Store, company domain.Company, user domain.User, roles ...domain.Role) {
	t.Helper()

	for _, role := range roles {
		require.NoError(t, st.Companies().AddMember(context.Background(), company.ID, user.ID, role))
	}
}

func seedCategory(t *testing.T, st store.Store, company domain.Company, name string, active bool) domain.Category {
	t.Helper()

	now := time.Now().UTC()
	c := domain.Category{
		ID:        idx.New().String(),
		CompanyID: company.ID,
		Name:      name,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Categories().CreateCategory(context.Background(), c))
	return c
}

func seedTicket(t *testing.T, st store.Store, category domain.Category, title string) domain.Ticket {
	t.Helper()

	now := time.Now().UTC()
	tk := domain.Ticket{
		ID:         idx.New().String(),
		CategoryID: category.ID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, st.Tickets().CreateTicket(context.Background(), tk))
	return tk
}
