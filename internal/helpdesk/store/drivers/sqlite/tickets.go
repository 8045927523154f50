package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

type ticketsRepo struct {
	db *sql.DB
}

const ticketColumns = `id, category_id, title, description, created_at, updated_at`

func (r *ticketsRepo) GetTicketByID(ctx context.Context, id string) (domain.Ticket, error) {
	var t domain.Ticket
	err := r.db.QueryRowContext(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id).
		Scan(&t.ID, &t.CategoryID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Ticket{}, mapNotFound(err)
	}
	return t, nil
}

func (r *ticketsRepo) CreateTicket(ctx context.Context, t domain.Ticket) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tickets (id, category_id, title, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.CategoryID, t.Title, t.Description, t.CreatedAt, t.UpdatedAt)
	return mapConstraint(err)
}

func (r *ticketsRepo) UpdateTicket(ctx context.Context, t domain.Ticket) error {
	return execAffectingOne(ctx, r.db,
		`UPDATE tickets SET title = ?, description = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title, t.Description, time.Now().UTC(), t.ID)
}

func (r *ticketsRepo) DeleteTicket(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, `DELETE FROM tickets WHERE id = ?`, id)
}

func (r *ticketsRepo) ListByCategories(
	ctx context.Context,
	categoryIDs []string,
) ([]domain.Ticket, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets
		WHERE category_id IN (` + placeholders(len(categoryIDs)) + `)
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, inArgs(categoryIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.CategoryID, &t.Title, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
