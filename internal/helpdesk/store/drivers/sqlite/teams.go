package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

type teamsRepo struct {
	db *sql.DB
}

const teamColumns = `id, company_id, name, description, active, created_at, updated_at`

func (r *teamsRepo) GetTeamByID(ctx context.Context, id string) (domain.Team, error) {
	var t domain.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = ?`, id).
		Scan(&t.ID, &t.CompanyID, &t.Name, &t.Description, &t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Team{}, mapNotFound(err)
	}
	return t, nil
}

func (r *teamsRepo) CreateTeam(ctx context.Context, t domain.Team) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, company_id, name, description, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.CompanyID, t.Name, t.Description, t.Active, t.CreatedAt, t.UpdatedAt)
	return mapConstraint(err)
}

func (r *teamsRepo) UpdateTeam(ctx context.Context, t domain.Team) error {
	return execAffectingOne(ctx, r.db,
		`UPDATE teams SET name = ?, description = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		t.Name, t.Description, t.Active, time.Now().UTC(), t.ID)
}

func (r *teamsRepo) DeleteTeam(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, `DELETE FROM teams WHERE id = ?`, id)
}

func (r *teamsRepo) ListByCompanies(
	ctx context.Context,
	companyIDs []string,
	onlyActive bool,
) ([]domain.Team, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + teamColumns + ` FROM teams
		WHERE company_id IN (` + placeholders(len(companyIDs)) + `)`
	if onlyActive {
		query += ` AND active = 1`
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, inArgs(companyIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Description, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
