package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/opsdesk/deskd/internal/helpdesk/domain"
)

type categoriesRepo struct {
	db *sql.DB
}

const categoryColumns = `id, company_id, name, description, active, created_at, updated_at`

func (r *categoriesRepo) GetCategoryByID(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.CompanyID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Category{}, mapNotFound(err)
	}
	return c, nil
}

func (r *categoriesRepo) CreateCategory(ctx context.Context, c domain.Category) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, company_id, name, description, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.CompanyID, c.Name, c.Description, c.Active, c.CreatedAt, c.UpdatedAt)
	return mapConstraint(err)
}

func (r *categoriesRepo) UpdateCategory(ctx context.Context, c domain.Category) error {
	return execAffectingOne(ctx, r.db,
		`UPDATE categories SET name = ?, description = ?, active = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Description, c.Active, time.Now().UTC(), c.ID)
}

func (r *categoriesRepo) DeleteCategory(ctx context.Context, id string) error {
	return execAffectingOne(ctx, r.db, `DELETE FROM categories WHERE id = ?`, id)
}

func (r *categoriesRepo) ListByCompanies(
	ctx context.Context,
	companyIDs []string,
	onlyActive bool,
) ([]domain.Category, error) {
	if len(companyIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM categories
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

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Description, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
