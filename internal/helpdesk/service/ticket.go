package service

import (
	"context"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/idx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

type TicketService struct {
	Store      store.Store
	Membership *MembershipService
}

// List computes the visible tickets through the two-hop ownership chain:
// companies from role flags, categories owned by those companies, tickets
// owned by those categories. Each stage feeds the next and an empty
// intermediate set returns immediately without running the later queries.
func (s *TicketService) List(
	ctx context.Context,
	userID string,
	opts domain.ScopeOptions,
) ([]domain.Ticket, error) {
	companies, err := s.Membership.FindCompanies(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, nil
	}

	categories, err := s.Store.Categories().ListByCompanies(ctx, companyIDs(companies), opts.OnlyActive)
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}

	categoryIDs := make([]string, len(categories))
	for i, c := range categories {
		categoryIDs[i] = c.ID
	}
	return s.Store.Tickets().ListByCategories(ctx, categoryIDs)
}

func (s *TicketService) Get(ctx context.Context, id string) (domain.Ticket, error) {
	return s.Store.Tickets().GetTicketByID(ctx, id)
}

func (s *TicketService) Create(
	ctx context.Context,
	categoryID, title, description string,
) (domain.Ticket, error) {
	if err := validateNameDescription(title, description); err != nil {
		return domain.Ticket{}, err
	}

	now := time.Now().UTC()
	t := domain.Ticket{
		ID:          idx.New().String(),
		CategoryID:  categoryID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Tickets().CreateTicket(ctx, t); err != nil {
		return domain.Ticket{}, err
	}

	slogx.FromContext(ctx).Debug("ticket created",
		"ticket_id", t.ID,
		"category_id", t.CategoryID,
	)
	return t, nil
}

func (s *TicketService) Update(
	ctx context.Context,
	id, title, description string,
) (domain.Ticket, error) {
	if err := validateNameDescription(title, description); err != nil {
		return domain.Ticket{}, err
	}

	t := domain.Ticket{ID: id, Title: title, Description: description}
	if err := s.Store.Tickets().UpdateTicket(ctx, t); err != nil {
		return domain.Ticket{}, err
	}
	return s.Store.Tickets().GetTicketByID(ctx, id)
}

func (s *TicketService) Delete(ctx context.Context, id string) error {
	return s.Store.Tickets().DeleteTicket(ctx, id)
}
