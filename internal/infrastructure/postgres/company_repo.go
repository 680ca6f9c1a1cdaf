package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

// CompanyRepo implements port.CompanyRepository.
type CompanyRepo struct {
	pool *pgxpool.Pool
}

// NewCompanyRepo creates a new PostgreSQL-backed company repository.
func NewCompanyRepo(pool *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{pool: pool}
}

// Save inserts a company.
func (r *CompanyRepo) Save(ctx context.Context, c model.Company) error {
	_, err := pgutil.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO companies (id, name, created_at) VALUES ($1, $2, $3)`,
		c.ID(), c.Name(), c.CreatedAt(),
	)
	if err != nil {
		return writeErr(err, "save company")
	}
	return nil
}

// Update stores a new company name.
func (r *CompanyRepo) Update(ctx context.Context, c model.Company) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE companies SET name = $2 WHERE id = $1`, c.ID(), c.Name())
	if err != nil {
		return writeErr(err, "update company")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", c.ID(), model.ErrNotFound)
	}
	return nil
}

// FindByID retrieves a single company.
func (r *CompanyRepo) FindByID(ctx context.Context, id string) (model.Company, error) {
	row := pgutil.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, created_at FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err != nil {
		return model.Company{}, notFound(err, "company", id)
	}
	return c, nil
}

// List returns every company ordered by name.
func (r *CompanyRepo) List(ctx context.Context) ([]model.Company, error) {
	rows, err := pgutil.Conn(ctx, r.pool).Query(ctx,
		`SELECT id, name, created_at FROM companies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	var out []model.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a company; persons referencing it keep a NULL company.
func (r *CompanyRepo) Delete(ctx context.Context, id string) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("company %s: %w", id, model.ErrNotFound)
	}
	return nil
}

func scanCompany(s scannable) (model.Company, error) {
	var (
		id, name  string
		createdAt time.Time
	)
	if err := s.Scan(&id, &name, &createdAt); err != nil {
		return model.Company{}, err
	}
	return model.ReconstructCompany(id, name, createdAt), nil
}
