package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/httpx"
	"github.com/opsdesk/deskd/pkg/idx"
)

const maxBodyBytes = 1 << 20

// TargetResolver determines the single company a request concerns. There is
// one implementation per entity kind because company ownership is direct for
// categories and teams but indirect (through the category) for tickets.
type TargetResolver interface {
	// ResolveParam resolves the owning company of the path-identified entity.
	ResolveParam(ctx context.Context, id string) (domain.Company, error)

	// ResolveBody resolves the company a creation payload targets.
	ResolveBody(ctx context.Context, p targetPayload) (domain.Company, error)
}

// targetPayload is the slice of a request body that target resolution cares
// about. Handlers re-decode the body for their own fields.
type targetPayload struct {
	Company  string `json:"_company"`
	Category string `json:"_category"`
}

// categoryTargets resolves categories: one hop, entity -> company.
type categoryTargets struct {
	store store.Store
}

func (t *categoryTargets) ResolveParam(ctx context.Context, id string) (domain.Company, error) {
	if _, err := idx.Parse(id); err != nil {
		return domain.Company{}, errMalformedID
	}

	category, err := t.store.Categories().GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, errBadTarget
		}
		return domain.Company{}, err
	}
	return companyOf(ctx, t.store, category.CompanyID, "category", category.ID)
}

func (t *categoryTargets) ResolveBody(ctx context.Context, p targetPayload) (domain.Company, error) {
	return companyFromBody(ctx, t.store, p.Company)
}

// teamTargets resolves teams; same one-hop shape as categories.
type teamTargets struct {
	store store.Store
}

func (t *teamTargets) ResolveParam(ctx context.Context, id string) (domain.Company, error) {
	if _, err := idx.Parse(id); err != nil {
		return domain.Company{}, errMalformedID
	}

	team, err := t.store.Teams().GetTeamByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, errBadTarget
		}
		return domain.Company{}, err
	}
	return companyOf(ctx, t.store, team.CompanyID, "team", team.ID)
}

func (t *teamTargets) ResolveBody(ctx context.Context, p targetPayload) (domain.Company, error) {
	return companyFromBody(ctx, t.store, p.Company)
}

// ticketTargets resolves tickets: two hops, ticket -> category -> company.
type ticketTargets struct {
	store store.Store
}

func (t *ticketTargets) ResolveParam(ctx context.Context, id string) (domain.Company, error) {
	if _, err := idx.Parse(id); err != nil {
		return domain.Company{}, errMalformedID
	}

	ticket, err := t.store.Tickets().GetTicketByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, errBadTarget
		}
		return domain.Company{}, err
	}

	// A ticket always references a category and the category a company; a
	// broken link past the first hop is our data integrity problem, not a
	// client error.
	category, err := t.store.Categories().GetCategoryByID(ctx, ticket.CategoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, fmt.Errorf(
				"ticket %s references missing category %s", ticket.ID, ticket.CategoryID)
		}
		return domain.Company{}, err
	}
	return companyOf(ctx, t.store, category.CompanyID, "category", category.ID)
}

func (t *ticketTargets) ResolveBody(ctx context.Context, p targetPayload) (domain.Company, error) {
	if p.Category == "" {
		return domain.Company{}, errBadTarget
	}

	category, err := t.store.Categories().GetCategoryByID(ctx, p.Category)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, errBadTarget
		}
		return domain.Company{}, err
	}

	company, err := t.store.Companies().GetCompanyByID(ctx, category.CompanyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, errBadTarget
		}
		return domain.Company{}, err
	}
	return company, nil
}

// companyOf follows a resolved entity's company reference. The entity was
// just fetched, so a missing company is an internal consistency failure.
func companyOf(
	ctx context.Context,
	st store.Store,
	companyID, kind, entityID string,
) (domain.Company, error) {
	company, err := st.Companies().GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, fmt.Errorf(
				"%s %s references missing company %s", kind, entityID, companyID)
		}
		return domain.Company{}, err
	}
	return company, nil
}

// companyFromBody resolves a direct `_company` body reference. An absent
// field or unknown company is a client error: the caller asked us to target
// something that is not there.
func companyFromBody(ctx context.Context, st store.Store, companyID string) (domain.Company, error) {
	if companyID == "" {
		return domain.Company{}, errBadTarget
	}

	company, err := st.Companies().GetCompanyByID(ctx, companyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Company{}, errBadTarget
		}
		return domain.Company{}, err
	}
	return company, nil
}

// ResolveTargetParam resolves the target company from the {id} path segment
// and exposes it on the request context for the authorization gate.
func ResolveTargetParam(resolver TargetResolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			company, err := resolver.ResolveParam(r.Context(), r.PathValue("id"))
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withCompany(r.Context(), company)))
		})
	}
}

// ResolveTargetBody resolves the target company from the request payload. It
// only runs when no company has been resolved yet, so one pipeline can serve
// id-based and body-based entry points without double resolution. The body is
// restored afterwards for the handler's own decode.
func ResolveTargetBody(resolver TargetResolver) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := CompanyFrom(r.Context()); ok {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, r, errBadTarget)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			var p targetPayload
			if err := json.Unmarshal(body, &p); err != nil {
				writeError(w, r, errBadTarget)
				return
			}

			company, err := resolver.ResolveBody(r.Context(), p)
			if err != nil {
				writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withCompany(r.Context(), company)))
		})
	}
}
