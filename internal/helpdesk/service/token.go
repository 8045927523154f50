package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
	"github.com/opsdesk/deskd/internal/helpdesk/store"
	"github.com/opsdesk/deskd/pkg/cryptox"
	"github.com/opsdesk/deskd/pkg/idx"
	"github.com/opsdesk/deskd/pkg/slogx"
)

var (
	ErrUnknownEmail      = errors.New("no user with that email")
	ErrTokenNotFound     = errors.New("token not found or no longer redeemable")
	ErrTokenAlreadyFired = errors.New("token has already been fired")
)

// DefaultTokenTTL is the validity window of a freshly issued one-time token.
const DefaultTokenTTL = 24 * time.Hour

// TokenService issues and redeems one-time tokens. A token is a random
// alphanumeric bearer credential tied to a user; it dies on first use
// (firing) or at its expiration, whichever comes first.
type TokenService struct {
	Store  store.Store
	Mailer Mailer
	TTL    time.Duration
}

func (s *TokenService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultTokenTTL
}

// Issue mints a new token of the given type for the user. The token string
// comes from a cryptographically secure source; it is the only unguessable
// part of the redemption flow.
func (s *TokenService) Issue(ctx context.Context, userID, tokenType string) (domain.Token, error) {
	value, err := cryptox.GenerateTokenString(cryptox.TokenLength)
	if err != nil {
		return domain.Token{}, err
	}

	now := time.Now().UTC()
	t := domain.Token{
		ID:        idx.New().String(),
		Value:     value,
		UserID:    userID,
		Type:      tokenType,
		Fired:     false,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}
	if err := s.Store.Tokens().CreateToken(ctx, t); err != nil {
		return domain.Token{}, err
	}

	slogx.FromContext(ctx).Debug("token issued",
		"token_id", t.ID,
		"token_type", t.Type,
		"user_id", t.UserID,
		"expires_at", t.ExpiresAt,
	)
	return t, nil
}

// RequestPasswordReset looks up the user by email, issues a lostPassword
// token and hands it to the mailer. Delivery itself is a collaborator
// concern.
func (s *TokenService) RequestPasswordReset(ctx context.Context, email string) (domain.Token, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("password reset requested for unknown email")
			return domain.Token{}, ErrUnknownEmail
		}
		return domain.Token{}, err
	}

	token, err := s.Issue(ctx, user.ID, domain.TokenTypeLostPassword)
	if err != nil {
		return domain.Token{}, err
	}

	if s.Mailer != nil {
		if err := s.Mailer.SendPasswordReset(ctx, user, token); err != nil {
			// The token is already persisted and redeemable; a delivery
			// failure is logged, not surfaced as a request failure.
			log.Error("password reset mail delivery failed",
				slog.String("user_id", user.ID),
				slog.Any("error", err),
			)
		}
	}
	return token, nil
}

// FindValidToken returns the token for the given opaque string only if it has
// not been fired. Expiry is NOT checked here: an expired-but-unfired token is
// still findable even though IsValid reports false. That mirrors the
// long-standing behaviour existing clients see on the check endpoint;
// redemption paths must gate on IsValid themselves.
func (s *TokenService) FindValidToken(ctx context.Context, value string) (domain.Token, error) {
	t, err := s.Store.Tokens().GetUnfiredTokenByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Token{}, ErrTokenNotFound
		}
		return domain.Token{}, err
	}
	return t, nil
}

// Fire permanently invalidates the token. The underlying update only succeeds
// if the token was still unfired, so concurrent redemptions resolve to one
// winner; losers get ErrTokenAlreadyFired.
func (s *TokenService) Fire(ctx context.Context, t domain.Token) error {
	if err := s.Store.Tokens().FireToken(ctx, t.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenAlreadyFired
		}
		return err
	}

	slogx.FromContext(ctx).Debug("token fired",
		"token_id", t.ID,
		"token_type", t.Type,
	)
	return nil
}

// CheckValidity reports whether the token string currently passes the full
// validity rule (unfired and unexpired). Unknown and fired tokens are simply
// invalid; this endpoint never errors on a bad string.
func (s *TokenService) CheckValidity(ctx context.Context, value string) (bool, error) {
	t, err := s.Store.Tokens().GetUnfiredTokenByValue(ctx, value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return t.IsValid(), nil
}

// ResetPassword redeems a lostPassword token: the new password is hashed and
// stored, then the token is fired. The two writes are sequential, not atomic;
// the conditional fire is what prevents double redemption.
func (s *TokenService) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	log := slogx.FromContext(ctx)

	if newPassword == "" {
		return ErrValidation
	}

	t, err := s.FindValidToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	// FindValidToken deliberately ignores expiry; redemption must not.
	if !t.IsValid() {
		log.Warn("password reset attempted with expired token",
			slog.String("token_id", t.ID),
		)
		return ErrTokenNotFound
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, t.UserID, hash); err != nil {
		return err
	}

	if err := s.Fire(ctx, t); err != nil {
		return err
	}

	log.Info("password reset completed",
		slog.String("user_id", t.UserID),
		slog.String("token_id", t.ID),
	)
	return nil
}
