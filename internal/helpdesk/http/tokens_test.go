package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsdesk/deskd/pkg/cryptox"
)

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness(t)

	user := h.seedUser(t, "reset@example.com")

	// Request a reset; the token travels through the mailer, never the
	// response body.
	w := h.do(t, request{
		method: http.MethodPost,
		path:   "/tokens",
		body:   map[string]any{"email": user.Email},
	})
	require.Equal(t, http.StatusOK, w.Code)

	tokenValue := h.mailer.lastToken.Value
	require.NotEmpty(t, tokenValue)
	require.NotContains(t, w.Body.String(), tokenValue)

	w = h.do(t, request{
		method: http.MethodGet,
		path:   "/tokens/check?t=" + tokenValue,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decodeJSON[map[string]bool](t, w)["valid"])

	w = h.do(t, request{
		method: http.MethodPost,
		path:   "/password-change",
		body:   map[string]any{"token": tokenValue, "password": "brand-new-password"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := h.store.Users().GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("brand-new-password", stored.PasswordHash))

	// One-time means one time.
	w = h.do(t, request{
		method: http.MethodGet,
		path:   "/tokens/check?t=" + tokenValue,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, decodeJSON[map[string]bool](t, w)["valid"])

	w = h.do(t, request{
		method: http.MethodPost,
		path:   "/password-change",
		body:   map[string]any{"token": tokenValue, "password": "third-password"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenRequestUnknownEmail(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, request{
		method: http.MethodPost,
		path:   "/tokens",
		body:   map[string]any{"email": "nobody@example.com"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenCheckUnknownValue(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, request{
		method: http.MethodGet,
		path:   "/tokens/check?t=definitely-not-a-token",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, decodeJSON[map[string]bool](t, w)["valid"])
}

func TestTokenEndpointRateLimited(t *testing.T) {
	h := newHarness(t)

	user := h.seedUser(t, "limited@example.com")
	const addr = "198.51.100.7:9000"

	for i := 0; i < 5; i++ {
		w := h.do(t, request{
			method: http.MethodPost,
			path:   "/tokens",
			body:   map[string]any{"email": user.Email},
			remote: addr,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := h.do(t, request{
		method: http.MethodPost,
		path:   "/tokens",
		body:   map[string]any{"email": user.Email},
		remote: addr,
	})
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}
