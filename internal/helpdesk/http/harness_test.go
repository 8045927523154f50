package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	helpdeskhttp "github.com/opsdesk/deskd/internal/helpdesk/http"
	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/internal/helpdesk/store/drivers/sqlite"
	"github.com/opsdesk/deskd/pkg/idx"
	"github.com/opsdesk/deskd/pkg/jwtx"
)

const testIssuer = "helpdesk-test"

// captureMailer records the last issued token so redemption flows can be
// driven end to end without a real mail transport.
type captureMailer struct {
	lastToken domain.Token
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, user domain.User, token domain.Token) error {
	m.lastToken = token
	return nil
}

type harness struct {
	handler http.Handler
	store   store.Store
	signer  *jwtx.HS256
	mailer  *captureMailer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewHS256([]byte("integration-test-secret"), testIssuer)
	require.NoError(t, err)

	mailer := &captureMailer{}
	tokens := &service.TokenService{Store: st, Mailer: mailer}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := helpdeskhttp.NewRouter(st, signer, tokens, logger)

	return &harness{
		handler: router.Handler(),
		store:   st,
		signer:  signer,
		mailer:  mailer,
	}
}

// Each request gets a distinct source address so the per-IP rate limiter
// never interferes with functional tests. Rate limit tests pin an address
// explicitly.
var addrCounter atomic.Int64

func nextAddr() string {
	n := addrCounter.Add(1)
	return fmt.Sprintf("10.0.%d.%d:40000", (n>>8)&255, n&255)
}

type request struct {
	method string
	path   string
	token  string
	body   any
	remote string
}

func (h *harness) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(req.method, req.path, body)
	if req.remote != "" {
		r.RemoteAddr = req.remote
	} else {
		r.RemoteAddr = nextAddr()
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}

	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, r)
	return w
}

func (h *harness) accessToken(t *testing.T, user domain.User) string {
	t.Helper()

	claims := jwtx.NewAccessClaims(user.ID, user.Email, testIssuer, time.Hour, time.Now().UTC())
	signed, err := h.signer.Sign(claims)
	require.NoError(t, err)
	return signed
}

func (h *harness) seedUser(t *testing.T, email string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:        idx.New().String(),
		Email:     email,
		Name:      email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, h.store.Users().CreateUser(context.Background(), u))
	return u
}

func (h *harness) seedCompany(t *testing.T, name string, active bool) domain.Company {
	t.Helper()

	now := time.Now().UTC()
	c := domain.Company{
		ID:        idx.New().String(),
		Name:      name,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, h.store.Companies().CreateCompany(context.Background(), c))
	return c
}

func (h *harness) seedMember(t *testing.T, c domain.Company, u domain.User, roles ...domain.Role) {
	t.Helper()

	for _, role := range roles {
		require.NoError(t, h.store.Companies().AddMember(context.Background(), c.ID, u.ID, role))
	}
}

func (h *harness) seedCategory(t *testing.T, c domain.Company, name string, active bool) domain.Category {
	t.Helper()

	now := time.Now().UTC()
	cat := domain.Category{
		ID:        idx.New().String(),
		CompanyID: c.ID,
		Name:      name,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, h.store.Categories().CreateCategory(context.Background(), cat))
	return cat
}

func (h *harness) seedTicket(t *testing.T, cat domain.Category, title string) domain.Ticket {
	t.Helper()

	now := time.Now().UTC()
	tk := domain.Ticket{
		ID:         idx.New().String(),
		CategoryID: cat.ID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, h.store.Tickets().CreateTicket(context.Background(), tk))
	return tk
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
