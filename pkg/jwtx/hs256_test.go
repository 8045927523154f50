package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHS256SignVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	h, err := NewHS256([]byte("test-secret"), "helpdesk")
	require.NoError(t, err)

	claims := NewAccessClaims("user-1", "u1@example.com", "helpdesk", time.Hour, time.Now().UTC())
	raw, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", got.Subject)
	require.Equal(t, "u1@example.com", got.Email)
	require.NoError(t, got.ValidateExpiry())
}

func TestHS256RejectsWrongSecret(t *testing.T) {
	t.Parallel()

	a, err := NewHS256([]byte("secret-a"), "")
	require.NoError(t, err)
	b, err := NewHS256([]byte("secret-b"), "")
	require.NoError(t, err)

	raw, err := a.Sign(NewAccessClaims("user-1", "", "", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = b.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHS256RejectsExpiredToken(t *testing.T) {
	t.Parallel()

	h, err := NewHS256([]byte("test-secret"), "")
	require.NoError(t, err)

	past := time.Now().UTC().Add(-2 * time.Hour)
	raw, err := h.Sign(NewAccessClaims("user-1", "", "", time.Hour, past))
	require.NoError(t, err)

	_, err = h.Verify(raw)
	require.ErrorIs(t, err, ErrExpired)
}

func TestHS256RejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	signer, err := NewHS256([]byte("test-secret"), "other-issuer")
	require.NoError(t, err)
	verifier, err := NewHS256([]byte("test-secret"), "helpdesk")
	require.NoError(t, err)

	raw, err := signer.Sign(NewAccessClaims("user-1", "", "other-issuer", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestHS256RejectsGarbage(t *testing.T) {
	t.Parallel()

	h, err := NewHS256([]byte("test-secret"), "")
	require.NoError(t, err)

	_, err = h.Verify("not.a.jwt")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewHS256RequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256(nil, "helpdesk")
	require.ErrorIs(t, err, ErrEmptySecret)
}
