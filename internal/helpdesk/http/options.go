package http

import (
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

// parseScopeOptions reads the listing query parameters. Only the literal
// string "false" disables a flag; any other value, including absence, keeps
// the default true.
func parseScopeOptions(r *http.Request) domain.ScopeOptions {
	opts := domain.DefaultScopeOptions()
	q := r.URL.Query()

	if q.Get("admin") == "false" {
		opts.Admin = false
	}
	if q.Get("team") == "false" {
		opts.Team = false
	}
	if q.Get("purchase") == "false" {
		opts.Purchase = false
	}
	if q.Get("onlyActive") == "false" {
		opts.OnlyActive = false
	}
	return opts
}
