package store

import (
	"context"
	"errors"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite) implement
// this. It exposes sub-repositories to keep concerns tidy and testable.
//
// The authorization core is read-mostly: the only writes it performs itself
// are token firing and the thin entity create/update/delete operations. No
// multi-step sequence is wrapped in a transaction; each request's pipeline is
// a plain sequence of independent reads followed by at most one write.
type Store interface {
	Users() Users
	Companies() Companies
	Categories() Categories
	Teams() Teams
	Tickets() Tickets
	Tokens() Tokens

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByID returns a user by id. Exactly one call of this happens per
	// authenticated request, from the identity resolver.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used by the token issuance flow.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
}

type Companies interface {
	// GetCompanyByID returns a company by id.
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// CreateCompany inserts a new company.
	CreateCompany(ctx context.Context, c domain.Company) error

	// AddMember places a user into one of a company's membership sets.
	// Membership mutation belongs to the user-management collaborator; the
	// authorization core only ever reads memberships.
	AddMember(ctx context.Context, companyID, userID string, role domain.Role) error

	// ListCompaniesForUser returns the companies where the user sits in at
	// least one of the membership sets enabled by opts, optionally restricted
	// to active companies. Disabling every role yields an empty result, not
	// an error.
	ListCompaniesForUser(ctx context.Context, userID string, opts domain.ScopeOptions) ([]domain.Company, error)

	// HasRole reports whether the user is in the given membership set of the
	// company. Company activity is not considered.
	HasRole(ctx context.Context, companyID, userID string, role domain.Role) (bool, error)

	// IsMember reports whether the user is in any membership set of the
	// company. Company activity is not considered.
	IsMember(ctx context.Context, companyID, userID string) (bool, error)
}

type Categories interface {
	GetCategoryByID(ctx context.Context, id string) (domain.Category, error)
	CreateCategory(ctx context.Context, c domain.Category) error
	UpdateCategory(ctx context.Context, c domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// ListByCompanies returns categories owned by any of the given companies,
	// optionally restricted to active ones. An empty id set yields an empty
	// result.
	ListByCompanies(ctx context.Context, companyIDs []string, onlyActive bool) ([]domain.Category, error)
}

type Teams interface {
	GetTeamByID(ctx context.Context, id string) (domain.Team, error)
	CreateTeam(ctx context.Context, t domain.Team) error
	UpdateTeam(ctx context.Context, t domain.Team) error
	DeleteTeam(ctx context.Context, id string) error
	ListByCompanies(ctx context.Context, companyIDs []string, onlyActive bool) ([]domain.Team, error)
}

type Tickets interface {
	GetTicketByID(ctx context.Context, id string) (domain.Ticket, error)
	CreateTicket(ctx context.Context, t domain.Ticket) error
	UpdateTicket(ctx context.Context, t domain.Ticket) error
	DeleteTicket(ctx context.Context, id string) error

	// ListByCategories returns tickets owned by any of the given categories.
	// Tickets carry no activity flag, so there is no onlyActive filter here.
	ListByCategories(ctx context.Context, categoryIDs []string) ([]domain.Ticket, error)
}

type Tokens interface {
	// CreateToken stores a freshly issued one-time token.
	CreateToken(ctx context.Context, t domain.Token) error

	// GetUnfiredTokenByValue returns the token with the given opaque value if
	// it has not been fired. Expiry is intentionally not checked here; see
	// the token service for the redemption contract.
	GetUnfiredTokenByValue(ctx context.Context, value string) (domain.Token, error)

	// FireToken marks the token as fired. The update is conditional on
	// fired=0 so concurrent redemptions cannot both succeed; a lost race
	// surfaces as ErrNotFound.
	FireToken(ctx context.Context, id string) error

	// DeleteExpiredTokens removes tokens whose expiry lies further in the
	// past than the retention window. Housekeeping only.
	DeleteExpiredTokens(ctx context.Context, retention time.Duration) error
}
