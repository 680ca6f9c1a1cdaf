package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

// DashboardQueries implements port.DashboardQueries with aggregate SQL.
type DashboardQueries struct {
	pool *pgxpool.Pool
}

// NewDashboardQueries creates the dashboard read model.
func NewDashboardQueries(pool *pgxpool.Pool) *DashboardQueries {
	return &DashboardQueries{pool: pool}
}

func (q *DashboardQueries) CountPendingApplications(ctx context.Context) (int, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM loan_applications WHERE status = 'nueva'`)
}

func (q *DashboardQueries) CountActiveLoans(ctx context.Context) (int, error) {
	return q.count(ctx, `SELECT COUNT(*) FROM loans WHERE status = 'activa'`)
}

// TotalOutstanding sums the balance of activa loans.
func (q *DashboardQueries) TotalOutstanding(ctx context.Context) (decimal.Decimal, error) {
	return q.sum(ctx, `SELECT COALESCE(SUM(outstanding_balance), 0) FROM loans WHERE status = 'activa'`)
}

// TotalInterestEarned sums the interest portion of every paid installment.
func (q *DashboardQueries) TotalInterestEarned(ctx context.Context) (decimal.Decimal, error) {
	return q.sum(ctx, `SELECT COALESCE(SUM(interest), 0) FROM installments WHERE status = 'pagada'`)
}

// UpcomingPayments returns the earliest pending installment of each activa
// loan, soonest first.
func (q *DashboardQueries) UpcomingPayments(ctx context.Context, limit int) ([]model.UpcomingPayment, error) {
	rows, err := pgutil.Conn(ctx, q.pool).Query(ctx, `
		SELECT due_date, capital, interest, amount, loan_id, borrower_name, cedula, period_index
		FROM (
			SELECT DISTINCT ON (i.loan_id)
			       i.due_date, i.capital, i.interest, i.amount, i.loan_id,
			       p.first_name || ' ' || p.last_name AS borrower_name, p.cedula, i.period_index
			FROM installments i
			JOIN loans l ON l.id = i.loan_id
			JOIN loan_applications a ON a.id = l.application_id
			JOIN persons p ON p.id = a.person_id
			WHERE l.status = 'activa' AND i.status = 'pendiente'
			ORDER BY i.loan_id, i.period_index
		) first_pending
		ORDER BY due_date, loan_id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query upcoming payments: %w", err)
	}
	defer rows.Close()

	out := []model.UpcomingPayment{}
	for rows.Next() {
		var u model.UpcomingPayment
		if err := rows.Scan(
			&u.DueDate, &u.Capital, &u.Interest, &u.Total, &u.LoanID, &u.BorrowerName, &u.Cedula, &u.PeriodIndex,
		); err != nil {
			return nil, fmt.Errorf("scan upcoming payment: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// NextDueDates aggregates the pending installments of activa loans by due
// date, earliest first.
func (q *DashboardQueries) NextDueDates(ctx context.Context, limit int) ([]model.DueDateTotal, error) {
	rows, err := pgutil.Conn(ctx, q.pool).Query(ctx, `
		SELECT i.due_date, SUM(i.amount), SUM(i.capital), SUM(i.interest), COUNT(*)
		FROM installments i
		JOIN loans l ON l.id = i.loan_id
		WHERE l.status = 'activa' AND i.status = 'pendiente'
		GROUP BY i.due_date
		ORDER BY i.due_date
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query next due dates: %w", err)
	}
	defer rows.Close()

	out := []model.DueDateTotal{}
	for rows.Next() {
		var d model.DueDateTotal
		if err := rows.Scan(&d.DueDate, &d.Total, &d.Capital, &d.Interest, &d.Installments); err != nil {
			return nil, fmt.Errorf("scan due date total: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RecentPayments returns the latest standing payments.
func (q *DashboardQueries) RecentPayments(ctx context.Context, limit int) ([]model.RecentPayment, error) {
	rows, err := pgutil.Conn(ctx, q.pool).Query(ctx, `
		SELECT pm.paid_on, pm.created_at, pm.amount, pm.id, pm.loan_id,
		       p.first_name || ' ' || p.last_name, pm.period_index
		FROM payments pm
		JOIN loans l ON l.id = pm.loan_id
		JOIN loan_applications a ON a.id = l.application_id
		JOIN persons p ON p.id = a.person_id
		WHERE pm.reversed_at IS NULL
		ORDER BY pm.created_at DESC, pm.id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent payments: %w", err)
	}
	defer rows.Close()

	out := []model.RecentPayment{}
	for rows.Next() {
		var r model.RecentPayment
		if err := rows.Scan(
			&r.PaidOn, &r.CreatedAt, &r.Amount, &r.PaymentID, &r.LoanID, &r.BorrowerName, &r.PeriodIndex,
		); err != nil {
			return nil, fmt.Errorf("scan recent payment: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (q *DashboardQueries) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := pgutil.Conn(ctx, q.pool).QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

func (q *DashboardQueries) sum(ctx context.Context, query string) (decimal.Decimal, error) {
	var d decimal.Decimal
	if err := pgutil.Conn(ctx, q.pool).QueryRow(ctx, query).Scan(&d); err != nil {
		return decimal.Zero, fmt.Errorf("sum: %w", err)
	}
	return d, nil
}
