package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

const applicationColumns = `a.id, a.person_id, a.id_photo_urls, a.requested_amount, a.duration_months,
	a.bank_account_type, a.bank_account_number, a.bank_name, a.employer, a.status, a.created_at`

// LoanApplicationRepo implements port.LoanApplicationRepository.
type LoanApplicationRepo struct {
	pool *pgxpool.Pool
}

// NewLoanApplicationRepo creates a new repository backed by PostgreSQL.
func NewLoanApplicationRepo(pool *pgxpool.Pool) *LoanApplicationRepo {
	return &LoanApplicationRepo{pool: pool}
}

// Save inserts a new loan application.
func (r *LoanApplicationRepo) Save(ctx context.Context, app model.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (
			id, person_id, id_photo_urls, requested_amount, duration_months,
			bank_account_type, bank_account_number, bank_name, employer,
			status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`
	bank := app.BankAccount()
	photos := app.IDPhotoURLs()
	if photos == nil {
		photos = []string{}
	}
	_, err := pgutil.Conn(ctx, r.pool).Exec(ctx, query,
		app.ID(), app.PersonID(), photos, app.RequestedAmount(), app.DurationMonths(),
		bank.Type, bank.Number, bank.Bank, app.Employer(),
		app.Status().String(), app.CreatedAt(),
	)
	if err != nil {
		return writeErr(err, "save loan application")
	}
	return nil
}

// UpdateStatus records a decision. Only nueva applications can be decided;
// a row that was decided concurrently yields model.ErrConcurrentModification.
func (r *LoanApplicationRepo) UpdateStatus(ctx context.Context, app model.LoanApplication) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE loan_applications SET status = $2 WHERE id = $1 AND status = $3`,
		app.ID(), app.Status().String(), valueobject.ApplicationStatusNew.String(),
	)
	if err != nil {
		return fmt.Errorf("update loan application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan application %s: %w", app.ID(), model.ErrConcurrentModification)
	}
	return nil
}

// FindByID retrieves a single loan application.
func (r *LoanApplicationRepo) FindByID(ctx context.Context, id string) (model.LoanApplication, error) {
	row := pgutil.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM loan_applications a WHERE a.id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		return model.LoanApplication{}, notFound(err, "loan application", id)
	}
	return app, nil
}

// List returns one page of applications joined with their borrower, newest
// first, plus the total number of matching rows.
func (r *LoanApplicationRepo) List(ctx context.Context, filter model.ApplicationFilter) (model.ApplicationPage, error) {
	filter = filter.Normalize()

	var (
		conds []string
		args  []any
	)
	if !filter.Status.IsZero() {
		args = append(args, filter.Status.String())
		conds = append(conds, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if !filter.CreatedFrom.IsZero() {
		args = append(args, filter.CreatedFrom)
		conds = append(conds, fmt.Sprintf("a.created_at >= $%d", len(args)))
	}
	if !filter.CreatedTo.IsZero() {
		args = append(args, filter.CreatedTo)
		conds = append(conds, fmt.Sprintf("a.created_at <= $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	conn := pgutil.Conn(ctx, r.pool)

	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM loan_applications a`+where, args...).Scan(&total); err != nil {
		return model.ApplicationPage{}, fmt.Errorf("count loan applications: %w", err)
	}

	query := `SELECT ` + applicationColumns + `, ` + personColumns + `
		FROM loan_applications a
		JOIN persons p ON p.id = a.person_id` + where +
		fmt.Sprintf(" ORDER BY a.created_at DESC, a.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := conn.Query(ctx, query, append(args, filter.Limit, filter.Offset())...)
	if err != nil {
		return model.ApplicationPage{}, fmt.Errorf("query loan applications: %w", err)
	}
	defer rows.Close()

	page := model.ApplicationPage{Total: total, Page: filter.Page, Limit: filter.Limit}
	for rows.Next() {
		item, err := scanApplicationWithPerson(rows)
		if err != nil {
			return model.ApplicationPage{}, fmt.Errorf("scan loan application: %w", err)
		}
		page.Items = append(page.Items, item)
	}
	return page, rows.Err()
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

type applicationRow struct {
	createdAt time.Time
	amount    decimal.Decimal
	id        string
	status    string
	req       model.ApplicationRequest
}

func (a *applicationRow) targets() []any {
	return []any{
		&a.id, &a.req.PersonID, &a.req.IDPhotoURLs, &a.amount, &a.req.DurationMonths,
		&a.req.BankAccount.Type, &a.req.BankAccount.Number, &a.req.BankAccount.Bank, &a.req.Employer,
		&a.status, &a.createdAt,
	}
}

func (a *applicationRow) toModel() (model.LoanApplication, error) {
	status, err := valueobject.NewApplicationStatus(a.status)
	if err != nil {
		return model.LoanApplication{}, fmt.Errorf("parse application status: %w", err)
	}
	a.req.RequestedAmount = a.amount
	return model.ReconstructLoanApplication(a.id, a.req, status, a.createdAt), nil
}

func scanApplication(s scannable) (model.LoanApplication, error) {
	var row applicationRow
	if err := s.Scan(row.targets()...); err != nil {
		return model.LoanApplication{}, err
	}
	return row.toModel()
}

func scanApplicationWithPerson(s scannable) (model.ApplicationListItem, error) {
	var (
		row applicationRow
		pr  personRow
	)
	if err := s.Scan(append(row.targets(), pr.targets()...)...); err != nil {
		return model.ApplicationListItem{}, err
	}
	app, err := row.toModel()
	if err != nil {
		return model.ApplicationListItem{}, err
	}
	return model.ApplicationListItem{Application: app, Borrower: pr.toModel()}, nil
}
