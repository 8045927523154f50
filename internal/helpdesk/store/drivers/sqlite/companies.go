package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

type companiesRepo struct {
	db *sql.DB
}

const companyColumns = `id, name, active, created_at, updated_at`

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	var c domain.Company
	err := r.db.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Company{}, mapNotFound(err)
	}
	return c, nil
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO companies (id, name, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Active, c.CreatedAt, c.UpdatedAt)
	return mapConstraint(err)
}

func (r *companiesRepo) AddMember(ctx context.Context, companyID, userID string, role domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO company_members (company_id, user_id, role, created_at)
		 VALUES (?, ?, ?, ?)`,
		companyID, userID, string(role), time.Now().UTC())
	return mapConstraint(err)
}

func (r *companiesRepo) ListCompaniesForUser(
	ctx context.Context,
	userID string,
	opts domain.ScopeOptions,
) ([]domain.Company, error) {
	roles := opts.Roles()
	if len(roles) == 0 {
		// All role sets disabled: the visible set is empty by definition.
		return nil, nil
	}

	query := `SELECT DISTINCT c.id, c.name, c.active, c.created_at, c.updated_at
		FROM companies c
		JOIN company_members m ON m.company_id = c.id
		WHERE m.user_id = ? AND m.role IN (` + placeholders(len(roles)) + `)`
	args := []any{userID}
	for _, role := range roles {
		args = append(args, string(role))
	}
	if opts.OnlyActive {
		query += ` AND c.active = 1`
	}
	query += ` ORDER BY c.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		var c domain.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *companiesRepo) HasRole(
	ctx context.Context,
	companyID, userID string,
	role domain.Role,
) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM company_members
			WHERE company_id = ? AND user_id = ? AND role = ?
		)`,
		companyID, userID, string(role)).Scan(&exists)
	return exists, err
}

func (r *companiesRepo) IsMember(ctx context.Context, companyID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM company_members
			WHERE company_id = ? AND user_id = ?
		)`,
		companyID, userID).Scan(&exists)
	return exists, err
}
