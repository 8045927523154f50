package http

import (
	"encoding/json"
	"net/http"

	"github.com/opsdesk/deskd/internal/helpdesk/service"
	"github.com/opsdesk/deskd/pkg/httpx"
)

// TokenHandler serves the unauthenticated one-time token flow: requesting a
// password reset, probing a token's validity and redeeming it. These routes
// carry the strictest rate limits in the router since the token string is the
// only secret involved.
type TokenHandler struct {
	Tokens *service.TokenService
}

type tokenRequest struct {
	Email string `json:"email"`
}

type passwordChangeRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// HandleIssue answers POST /tokens: issue a lostPassword token for the user
// behind the email and hand it to the mailer. The token value never appears
// in the response body.
func (h *TokenHandler) HandleIssue(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, r, service.ErrUnknownEmail)
		return
	}

	if _, err := h.Tokens.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// HandleCheck answers GET /tokens/check?t=... with the token's current
// validity. Unknown, fired and expired tokens all read as invalid; the
// endpoint itself always answers 200.
func (h *TokenHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	valid, err := h.Tokens.CheckValidity(r.Context(), r.URL.Query().Get("t"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}

// HandlePasswordChange answers POST /password-change: redeem a lostPassword
// token for a new password. Firing happens inside the service after the hash
// is stored.
func (h *TokenHandler) HandlePasswordChange(w http.ResponseWriter, r *http.Request) {
	var req passwordChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, service.ErrTokenNotFound)
		return
	}

	if err := h.Tokens.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "changed"})
}
