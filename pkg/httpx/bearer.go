package httpx

import (
	"net/http"
	"strings"
)

// BearerToken extracts the bearer credential for a request. A credential
// supplied via the access_token query parameter is hoisted into the
// Authorization header position before extraction, so both transports are
// indistinguishable to everything downstream.
func BearerToken(r *http.Request) (string, bool) {
	if r.Header.Get("Authorization") == "" {
		if t := r.URL.Query().Get("access_token"); t != "" {
			r.Header.Set("Authorization", "Bearer "+t)
		}
	}

	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer")), true
}

// WriteBearerError writes an RFC 6750-compliant error response for bearer auth.
func WriteBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
