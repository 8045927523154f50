package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

type tokensRepo struct {
	db *sql.DB
}

const tokenColumns = `id, value, user_id, type, fired, created_at, expires_at`

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tokens (id, value, user_id, type, fired, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Value, t.UserID, t.Type, t.Fired, t.CreatedAt, t.ExpiresAt)
	return mapConstraint(err)
}

func (r *tokensRepo) GetUnfiredTokenByValue(ctx context.Context, value string) (domain.Token, error) {
	var t domain.Token
	err := r.db.QueryRowContext(ctx,
		`SELECT `+tokenColumns+` FROM tokens WHERE value = ? AND fired = 0`, value).
		Scan(&t.ID, &t.Value, &t.UserID, &t.Type, &t.Fired, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		return domain.Token{}, mapNotFound(err)
	}
	return t, nil
}

// FireToken flips fired only when it was still unset, so of two concurrent
// redemptions exactly one observes an affected row.
func (r *tokensRepo) FireToken(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db,
		`UPDATE tokens SET fired = 1 WHERE id = ? AND fired = 0`, id)
}

func (r *tokensRepo) DeleteExpiredTokens(ctx context.Context, retention time.Duration) error {
	cutoff := time.Now().UTC().Add(-retention)
	_, err := r.db.ExecContext(ctx, `DELETE FROM tokens WHERE expires_at < ?`, cutoff)
	return err
}
