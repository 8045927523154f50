package service

import (
	"context"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/idx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

type CategoryService struct {
	Store      store.Store
	Membership *MembershipService
}

// List returns the categories visible to the user: those owned by any company
// in the user's role-derived company set.
func (s *CategoryService) List(
	ctx context.Context,
	userID string,
	opts domain.ScopeOptions,
) ([]domain.Category, error) {
	companies, err := s.Membership.FindCompanies(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		// Nothing visible; skip the entity query entirely.
		return nil, nil
	}
	return s.Store.Categories().ListByCompanies(ctx, companyIDs(companies), opts.OnlyActive)
}

func (s *CategoryService) Get(ctx context.Context, id string) (domain.Category, error) {
	return s.Store.Categories().GetCategoryByID(ctx, id)
}

func (s *CategoryService) Create(
	ctx context.Context,
	companyID, name, description string,
) (domain.Category, error) {
	if err := validateNameDescription(name, description); err != nil {
		return domain.Category{}, err
	}

	now := time.Now().UTC()
	c := domain.Category{
		ID:          idx.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Categories().CreateCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}

	slogx.FromContext(ctx).Debug("category created",
		"category_id", c.ID,
		"company_id", c.CompanyID,
	)
	return c, nil
}

func (s *CategoryService) Update(
	ctx context.Context,
	id, name, description string,
	active bool,
) (domain.Category, error) {
	if err := validateNameDescription(name, description); err != nil {
		return domain.Category{}, err
	}

	c := domain.Category{ID: id, Name: name, Description: description, Active: active}
	if err := s.Store.Categories().UpdateCategory(ctx, c); err != nil {
		return domain.Category{}, err
	}
	return s.Store.Categories().GetCategoryByID(ctx, id)
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.Store.Categories().DeleteCategory(ctx, id)
}

func companyIDs(companies []domain.Company) []string {
	ids := make([]string, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
	}
	return ids
}
