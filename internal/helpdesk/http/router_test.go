package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/pkg/idx"
)

type categoryDTO struct {
	ID      string `json:"id"`
	Company string `json:"_company"`
	Name    string `json:"name"`
}

type ticketDTO struct {
	ID       string `json:"id"`
	Category string `json:"_category"`
	Title    string `json:"title"`
}

// Two companies, four users spread across their membership sets, one category
// in the second company. The admin-only listing for the second company's
// admin must surface exactly that category.
func TestScopedListingAcrossCompanies(t *testing.T) {
	h := newHarness(t)

	companyA := h.seedCompany(t, "acme", true)
	companyB := h.seedCompany(t, "blossom", true)

	u0 := h.seedUser(t, "u0@example.com")
	h.seedMember(t, companyA, u0, domain.RoleTeam)
	u1 := h.seedUser(t, "u1@example.com")
	h.seedMember(t, companyA, u1, domain.RoleAdmin, domain.RolePurchase)
	u2 := h.seedUser(t, "u2@example.com")
	h.seedMember(t, companyB, u2, domain.RoleTeam)
	u3 := h.seedUser(t, "u3@example.com")
	h.seedMember(t, companyB, u3, domain.RoleAdmin, domain.RolePurchase)

	h.seedCategory(t, companyA, "printer", true)
	flower := h.seedCategory(t, companyB, "flower", true)

	w := h.do(t, request{
		method: http.MethodGet,
		path:   "/categories?admin=true&purchase=false&team=false",
		token:  h.accessToken(t, u3),
	})
	require.Equal(t, http.StatusOK, w.Code)

	got := decodeJSON[[]categoryDTO](t, w)
	require.Len(t, got, 1)
	require.Equal(t, flower.ID, got[0].ID)
	require.Equal(t, companyB.ID, got[0].Company)

	// u2 is team-only in the same company; the admin-only filter leaves
	// nothing visible.
	w = h.do(t, request{
		method: http.MethodGet,
		path:   "/categories?purchase=false&team=false",
		token:  h.accessToken(t, u2),
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decodeJSON[[]categoryDTO](t, w))

	// Default options: u0 sees only its own company's category.
	w = h.do(t, request{
		method: http.MethodGet,
		path:   "/categories",
		token:  h.accessToken(t, u0),
	})
	require.Equal(t, http.StatusOK, w.Code)
	got = decodeJSON[[]categoryDTO](t, w)
	require.Len(t, got, 1)
	require.Equal(t, companyA.ID, got[0].Company)
}

func TestAuthenticationFailures(t *testing.T) {
	h := newHarness(t)

	// No credential at all.
	w := h.do(t, request{method: http.MethodGet, path: "/categories"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")

	// Undecodable credential.
	w = h.do(t, request{method: http.MethodGet, path: "/categories", token: "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Well-signed credential whose subject has no user record.
	ghost := domain.User{ID: idx.New().String(), Email: "ghost@example.com"}
	w = h.do(t, request{
		method: http.MethodGet,
		path:   "/categories",
		token:  h.accessToken(t, ghost),
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessTokenQueryParameter(t *testing.T) {
	h := newHarness(t)

	user := h.seedUser(t, "query@example.com")
	token := h.accessToken(t, user)

	w := h.do(t, request{
		method: http.MethodGet,
		path:   "/categories?access_token=" + token,
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMalformedVersusUnknownID(t *testing.T) {
	h := newHarness(t)

	company := h.seedCompany(t, "acme", true)
	user := h.seedUser(t, "u@example.com")
	h.seedMember(t, company, user, domain.RoleAdmin)
	token := h.accessToken(t, user)

	// Structurally invalid id reads as "no such route target".
	w := h.do(t, request{
		method: http.MethodGet,
		path:   "/categories/not-a-valid-id",
		token:  token,
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	// Well-formed id with no row behind it is a bad request.
	w = h.do(t, request{
		method: http.MethodGet,
		path:   "/categories/" + idx.New().String(),
		token:  token,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminGateOnCategoryMutations(t *testing.T) {
	h := newHarness(t)

	company := h.seedCompany(t, "acme", true)
	admin := h.seedUser(t, "admin@example.com")
	h.seedMember(t, company, admin, domain.RoleAdmin)
	teamOnly := h.seedUser(t, "team@example.com")
	h.seedMember(t, company, teamOnly, domain.RoleTeam)

	payload := map[string]any{
		"_company":    company.ID,
		"name":        "hardware",
		"description": "broken things",
	}

	// Team membership alone does not clear the admin gate.
	w := h.do(t, request{
		method: http.MethodPost,
		path:   "/categories",
		token:  h.accessToken(t, teamOnly),
		body:   payload,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, request{
		method: http.MethodPost,
		path:   "/categories",
		token:  h.accessToken(t, admin),
		body:   payload,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decodeJSON[categoryDTO](t, w)
	require.Equal(t, company.ID, created.Company)

	// Update and delete run the same gate through the path id.
	w = h.do(t, request{
		method: http.MethodPut,
		path:   "/categories/" + created.ID,
		token:  h.accessToken(t, teamOnly),
		body:   map[string]any{"name": "renamed", "description": ""},
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = h.do(t, request{
		method: http.MethodPut,
		path:   "/categories/" + created.ID,
		token:  h.accessToken(t, admin),
		body:   map[string]any{"name": "renamed", "description": "", "active": true},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = h.do(t, request{
		method: http.MethodDelete,
		path:   "/categories/" + created.ID,
		token:  h.accessToken(t, admin),
	})
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestMemberGateOnReads(t *testing.T) {
	h := newHarness(t)

	companyA := h.seedCompany(t, "acme", true)
	companyB := h.seedCompany(t, "blossom", true)
	category := h.seedCategory(t, companyA, "printer", true)

	member := h.seedUser(t, "member@example.com")
	h.seedMember(t, companyA, member, domain.RolePurchase)
	outsider := h.seedUser(t, "outsider@example.com")
	h.seedMember(t, companyB, outsider, domain.RoleAdmin)

	w := h.do(t, request{
		method: http.MethodGet,
		path:   "/categories/" + category.ID,
		token:  h.accessToken(t, member),
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Admin rights elsewhere grant nothing here.
	w = h.do(t, request{
		method: http.MethodGet,
		path:   "/categories/" + category.ID,
		token:  h.accessToken(t, outsider),
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBodyTargetResolutionFailures(t *testing.T) {
	h := newHarness(t)

	company := h.seedCompany(t, "acme", true)
	admin := h.seedUser(t, "admin@example.com")
	h.seedMember(t, company, admin, domain.RoleAdmin)
	token := h.accessToken(t, admin)

	// Missing company reference.
	w := h.do(t, request{
		method: http.MethodPost,
		path:   "/categories",
		token:  token,
		body:   map[string]any{"name": "hardware"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown company reference.
	w = h.do(t, request{
		method: http.MethodPost,
		path:   "/categories",
		token:  token,
		body:   map[string]any{"_company": idx.New().String(), "name": "hardware"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidationFailureStatus(t *testing.T) {
	h := newHarness(t)

	company := h.seedCompany(t, "acme", true)
	admin := h.seedUser(t, "admin@example.com")
	h.seedMember(t, company, admin, domain.RoleAdmin)

	w := h.do(t, request{
		method: http.MethodPost,
		path:   "/categories",
		token:  h.accessToken(t, admin),
		body:   map[string]any{"_company": company.ID, "name": ""},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}
