package service

import (
	"context"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/idx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

type TeamService struct {
	Store      store.Store
	Membership *MembershipService
}

func (s *TeamService) List(
	ctx context.Context,
	userID string,
	opts domain.ScopeOptions,
) ([]domain.Team, error) {
	companies, err := s.Membership.FindCompanies(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, nil
	}
	return s.Store.Teams().ListByCompanies(ctx, companyIDs(companies), opts.OnlyActive)
}

func (s *TeamService) Get(ctx context.Context, id string) (domain.Team, error) {
	return s.Store.Teams().GetTeamByID(ctx, id)
}

func (s *TeamService) Create(
	ctx context.Context,
	companyID, name, description string,
) (domain.Team, error) {
	if err := validateNameDescription(name, description); err != nil {
		return domain.Team{}, err
	}

	now := time.Now().UTC()
	t := domain.Team{
		ID:          idx.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Teams().CreateTeam(ctx, t); err != nil {
		return domain.Team{}, err
	}

	slogx.FromContext(ctx).Debug("team created",
		"team_id", t.ID,
		"company_id", t.CompanyID,
	)
	return t, nil
}

func (s *TeamService) Update(
	ctx context.Context,
	id, name, description string,
	active bool,
) (domain.Team, error) {
	if err := validateNameDescription(name, description); err != nil {
		return domain.Team{}, err
	}

	t := domain.Team{ID: id, Name: name, Description: description, Active: active}
	if err := s.Store.Teams().UpdateTeam(ctx, t); err != nil {
		return domain.Team{}, err
	}
	return s.Store.Teams().GetTeamByID(ctx, id)
}

func (s *TeamService) Delete(ctx context.Context, id string) error {
	return s.Store.Teams().DeleteTeam(ctx, id)
}
