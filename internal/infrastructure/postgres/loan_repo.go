package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

const loanColumns = `l.id, l.application_id, l.principal, l.total_interest, l.installment_amount,
	l.period_count, l.next_due_date, l.outstanding_balance, l.status, l.version,
	l.created_at, l.updated_at`

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

// Create inserts a loan and its schedule. Rows are written in one batch on
// the connection carried by ctx, or on a fresh transaction otherwise.
func (r *LoanRepo) Create(ctx context.Context, loan model.Loan) error {
	tx, err := pgutil.Begin(ctx, r.pool)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	loanQuery := `
		INSERT INTO loans (
			id, application_id, principal, total_interest, installment_amount,
			period_count, next_due_date, outstanding_balance, status, version,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err = tx.Exec(ctx, loanQuery,
		loan.ID(), loan.ApplicationID(), loan.Principal(), loan.TotalInterest(), loan.InstallmentAmount(),
		loan.PeriodCount(), nullableDate(loan.NextDueDate()), loan.OutstandingBalance(),
		loan.Status().String(), loan.Version(), loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return writeErr(err, "save loan")
	}

	batch := &pgx.Batch{}
	for _, row := range loan.Schedule() {
		batch.Queue(`
			INSERT INTO installments (
				loan_id, period_index, due_date, amount, interest, capital,
				opening_balance, closing_balance, status
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			loan.ID(), row.PeriodIndex, row.DueDate, row.Amount, row.Interest, row.Capital,
			row.OpeningBalance, row.ClosingBalance, row.Status.String(),
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("save installments: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Update writes the mutable loan columns and installment statuses. The write
// is conditional on the stored version matching loan.Version(); the version
// is then incremented.
func (r *LoanRepo) Update(ctx context.Context, loan model.Loan) error {
	tx, err := pgutil.Begin(ctx, r.pool)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `
		UPDATE loans SET
			next_due_date       = $3,
			outstanding_balance = $4,
			status              = $5,
			updated_at          = $6,
			version             = version + 1
		WHERE id = $1 AND version = $2`,
		loan.ID(), loan.Version(), nullableDate(loan.NextDueDate()), loan.OutstandingBalance(),
		loan.Status().String(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("update loan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan %s version %d: %w", loan.ID(), loan.Version(), model.ErrConcurrentModification)
	}

	batch := &pgx.Batch{}
	for _, row := range loan.Schedule() {
		batch.Queue(`UPDATE installments SET status = $3 WHERE loan_id = $1 AND period_index = $2`,
			loan.ID(), row.PeriodIndex, row.Status.String())
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("update installments: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// FindByID retrieves a loan and its schedule by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id string) (model.Loan, error) {
	return r.findOne(ctx, `SELECT `+loanColumns+` FROM loans l WHERE l.id = $1`, "loan", id)
}

// FindByApplicationID retrieves the loan created for an application.
func (r *LoanRepo) FindByApplicationID(ctx context.Context, applicationID string) (model.Loan, error) {
	return r.findOne(ctx, `SELECT `+loanColumns+` FROM loans l WHERE l.application_id = $1`,
		"loan for application", applicationID)
}

// List returns loans joined with their borrower, newest first. A zero status
// matches every loan.
func (r *LoanRepo) List(ctx context.Context, filter model.LoanFilter) ([]model.LoanListItem, error) {
	query := `SELECT ` + loanColumns + `, ` + personColumns + `
		FROM loans l
		JOIN loan_applications a ON a.id = l.application_id
		JOIN persons p ON p.id = a.person_id
		WHERE ($1::text = '' OR l.status = $1::text)
		ORDER BY l.created_at DESC, l.id`

	conn := pgutil.Conn(ctx, r.pool)
	rows, err := conn.Query(ctx, query, filter.Status.String())
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var (
		items []model.LoanListItem
		ids   []string
	)
	for rows.Next() {
		var (
			lr loanRow
			pr personRow
		)
		if err := rows.Scan(append(lr.targets(), pr.targets()...)...); err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		loan, err := lr.toModel(nil)
		if err != nil {
			return nil, err
		}
		items = append(items, model.LoanListItem{Loan: loan, Borrower: pr.toModel()})
		ids = append(ids, lr.id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return items, nil
	}

	schedules, err := loadSchedules(ctx, conn, ids)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		state := loanStateOf(item.Loan)
		state.Schedule = schedules[item.Loan.ID()]
		items[i].Loan = model.ReconstructLoan(state)
	}
	return items, nil
}

// Delete removes a loan. Installments and payments cascade.
func (r *LoanRepo) Delete(ctx context.Context, id string) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return writeErr(err, "delete loan")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan %s: %w", id, model.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

func (r *LoanRepo) findOne(ctx context.Context, query, what, key string) (model.Loan, error) {
	conn := pgutil.Conn(ctx, r.pool)

	var lr loanRow
	if err := conn.QueryRow(ctx, query, key).Scan(lr.targets()...); err != nil {
		return model.Loan{}, notFound(err, what, key)
	}

	schedules, err := loadSchedules(ctx, conn, []string{lr.id})
	if err != nil {
		return model.Loan{}, err
	}
	return lr.toModel(schedules[lr.id])
}

func loadSchedules(ctx context.Context, conn pgutil.Querier, loanIDs []string) (map[string][]model.Installment, error) {
	rows, err := conn.Query(ctx, `
		SELECT loan_id, period_index, due_date, amount, interest, capital,
		       opening_balance, closing_balance, status
		FROM installments
		WHERE loan_id = ANY($1::uuid[])
		ORDER BY loan_id, period_index`, loanIDs)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]model.Installment, len(loanIDs))
	for rows.Next() {
		var (
			loanID    string
			statusStr string
			row       model.Installment
		)
		if err := rows.Scan(
			&loanID, &row.PeriodIndex, &row.DueDate, &row.Amount, &row.Interest, &row.Capital,
			&row.OpeningBalance, &row.ClosingBalance, &statusStr,
		); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		if row.Status, err = valueobject.NewInstallmentStatus(statusStr); err != nil {
			return nil, fmt.Errorf("parse installment status: %w", err)
		}
		out[loanID] = append(out[loanID], row)
	}
	return out, rows.Err()
}

type loanRow struct {
	state       model.LoanState
	nextDueDate *time.Time
	id          string
	status      string
}

func (l *loanRow) targets() []any {
	s := &l.state
	return []any{
		&l.id, &s.ApplicationID, &s.Principal, &s.TotalInterest, &s.InstallmentAmount,
		&s.PeriodCount, &l.nextDueDate, &s.Outstanding, &l.status, &s.Version,
		&s.CreatedAt, &s.UpdatedAt,
	}
}

func (l *loanRow) toModel(schedule []model.Installment) (model.Loan, error) {
	status, err := valueobject.NewLoanStatus(l.status)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}
	s := l.state
	s.ID = l.id
	s.Status = status
	s.NextDueDate = derefTime(l.nextDueDate)
	s.Schedule = schedule
	return model.ReconstructLoan(s), nil
}

func loanStateOf(l model.Loan) model.LoanState {
	return model.LoanState{
		NextDueDate:       l.NextDueDate(),
		CreatedAt:         l.CreatedAt(),
		UpdatedAt:         l.UpdatedAt(),
		Principal:         l.Principal(),
		TotalInterest:     l.TotalInterest(),
		InstallmentAmount: l.InstallmentAmount(),
		Outstanding:       l.OutstandingBalance(),
		Status:            l.Status(),
		ID:                l.ID(),
		ApplicationID:     l.ApplicationID(),
		Schedule:          l.Schedule(),
		PeriodCount:       l.PeriodCount(),
		Version:           l.Version(),
	}
}
