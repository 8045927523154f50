package http

import (
	"log/slog"
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/obs"
	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/httpx"
	"github.com/opsdesk/deskd/pkg/jwtx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

// Router assembles the per-route middleware pipelines. Order within a
// pipeline is the contract: identity first, then target resolution, then the
// membership gate, then the handler. Nothing after the gate re-checks
// authorization.
type Router struct {
	Store      store.Store
	Verifier   jwtx.Verifier
	Membership *service.MembershipService
	Users      *service.UserService
	Categories *service.CategoryService
	Teams      *service.TeamService
	Tickets    *service.TicketService
	Tokens     *service.TokenService
	Logger     *slog.Logger
}

// NewRouter wires the default service graph over a store.
func NewRouter(st store.Store, verifier jwtx.Verifier, tokens *service.TokenService, logger *slog.Logger) *Router {
	membership := &service.MembershipService{Store: st}
	return &Router{
		Store:      st,
		Verifier:   verifier,
		Membership: membership,
		Users:      &service.UserService{Store: st},
		Categories: &service.CategoryService{Store: st, Membership: membership},
		Teams:      &service.TeamService{Store: st, Membership: membership},
		Tickets:    &service.TicketService{Store: st, Membership: membership},
		Tokens:     tokens,
		Logger:     logger,
	}
}

// Handler builds the complete mux with the global middleware stack applied.
func (rt *Router) Handler() http.Handler {
	obs.Init()

	mux := http.NewServeMux()
	rt.ApplyRoutes(mux)

	return httpx.Chain(mux,
		slogx.HTTPMiddleware(rt.Logger),
		obs.Instrument,
		Recover(),
	)
}

// ApplyRoutes registers every route with its pipeline on the mux.
func (rt *Router) ApplyRoutes(mux *http.ServeMux) {
	identity := RequireIdentity(rt.Verifier, rt.Users)
	admin := RequireCompanyAdmin(rt.Membership)
	member := RequireCompanyMember(rt.Membership)

	readLimit := httpx.RateLimitByIP(httpx.LenientLimit)
	writeLimit := httpx.RateLimitByIP(httpx.ModerateLimit)
	tokenLimit := httpx.RateLimitByIP(httpx.StrictLimit)

	categories := &CategoryHandler{Categories: rt.Categories}
	catTargets := &categoryTargets{store: rt.Store}

	mux.Handle("GET /categories", httpx.Chain(
		http.HandlerFunc(categories.HandleList),
		readLimit, identity,
	))
	mux.Handle("GET /categories/{id}", httpx.Chain(
		http.HandlerFunc(categories.HandleGet),
		readLimit, identity, ResolveTargetParam(catTargets), member,
	))
	mux.Handle("POST /categories", httpx.Chain(
		http.HandlerFunc(categories.HandleCreate),
		writeLimit, identity, ResolveTargetBody(catTargets), admin,
	))
	mux.Handle("PUT /categories/{id}", httpx.Chain(
		http.HandlerFunc(categories.HandleUpdate),
		writeLimit, identity, ResolveTargetParam(catTargets), admin,
	))
	mux.Handle("DELETE /categories/{id}", httpx.Chain(
		http.HandlerFunc(categories.HandleDelete),
		writeLimit, identity, ResolveTargetParam(catTargets), admin,
	))

	teams := &TeamHandler{Teams: rt.Teams}
	teamTgts := &teamTargets{store: rt.Store}

	mux.Handle("GET /teams", httpx.Chain(
		http.HandlerFunc(teams.HandleList),
		readLimit, identity,
	))
	mux.Handle("GET /teams/{id}", httpx.Chain(
		http.HandlerFunc(teams.HandleGet),
		readLimit, identity, ResolveTargetParam(teamTgts), member,
	))
	mux.Handle("POST /teams", httpx.Chain(
		http.HandlerFunc(teams.HandleCreate),
		writeLimit, identity, ResolveTargetBody(teamTgts), admin,
	))
	mux.Handle("PUT /teams/{id}", httpx.Chain(
		http.HandlerFunc(teams.HandleUpdate),
		writeLimit, identity, ResolveTargetParam(teamTgts), admin,
	))
	mux.Handle("DELETE /teams/{id}", httpx.Chain(
		http.HandlerFunc(teams.HandleDelete),
		writeLimit, identity, ResolveTargetParam(teamTgts), admin,
	))

	tickets := &TicketHandler{Tickets: rt.Tickets}
	ticketTgts := &ticketTargets{store: rt.Store}

	mux.Handle("GET /tickets", httpx.Chain(
		http.HandlerFunc(tickets.HandleList),
		readLimit, identity,
	))
	mux.Handle("GET /tickets/{id}", httpx.Chain(
		http.HandlerFunc(tickets.HandleGet),
		readLimit, identity, ResolveTargetParam(ticketTgts), member,
	))
	mux.Handle("POST /tickets", httpx.Chain(
		http.HandlerFunc(tickets.HandleCreate),
		writeLimit, identity, ResolveTargetBody(ticketTgts), member,
	))
	mux.Handle("PUT /tickets/{id}", httpx.Chain(
		http.HandlerFunc(tickets.HandleUpdate),
		writeLimit, identity, ResolveTargetParam(ticketTgts), member,
	))
	mux.Handle("DELETE /tickets/{id}", httpx.Chain(
		http.HandlerFunc(tickets.HandleDelete),
		writeLimit, identity, ResolveTargetParam(ticketTgts), member,
	))

	tokens := &TokenHandler{Tokens: rt.Tokens}

	mux.Handle("POST /tokens", httpx.Chain(
		http.HandlerFunc(tokens.HandleIssue), tokenLimit,
	))
	mux.Handle("GET /tokens/check", httpx.Chain(
		http.HandlerFunc(tokens.HandleCheck), tokenLimit,
	))
	mux.Handle("POST /password-change", httpx.Chain(
		http.HandlerFunc(tokens.HandlePasswordChange), tokenLimit,
	))

	system := &SystemHandler{Store: rt.Store}
	mux.HandleFunc("GET /livez", system.HandleLivez)
	mux.HandleFunc("GET /readyz", system.HandleReadyz)
	mux.Handle("GET /metrics", obs.Handler())
}
