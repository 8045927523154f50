package service

import (
	"context"
	"log/slog"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

// Mailer delivers out-of-band notifications. Actual email transport is an
// external collaborator; the service only depends on this interface.
type Mailer interface {
	SendPasswordReset(ctx context.Context, user domain.User, token domain.Token) error
}

// LogMailer is the default Mailer: it records that a reset was issued without
// ever logging the token string itself.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, user domain.User, token domain.Token) error {
	m.Logger.Info("password reset token issued",
		slog.String("user_id", user.ID),
		slog.String("token_id", token.ID),
		slog.Time("expires_at", token.ExpiresAt),
	)
	return nil
}
