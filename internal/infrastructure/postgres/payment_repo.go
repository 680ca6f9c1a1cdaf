package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

const paymentColumns = `id, loan_id, period_index, amount, paid_on, created_at, reversed_at`

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a new PostgreSQL-backed payment repository.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Save inserts a payment.
func (r *PaymentRepo) Save(ctx context.Context, p model.Payment) error {
	_, err := pgutil.Conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID(), p.LoanID(), p.PeriodIndex(), p.Amount(), p.PaidOn(), p.CreatedAt(), p.ReversedAt(),
	)
	if err != nil {
		return writeErr(err, "save payment")
	}
	return nil
}

// MarkReversed stores the reversal time. A payment reversed concurrently
// yields model.ErrPaymentAlreadyReversed.
func (r *PaymentRepo) MarkReversed(ctx context.Context, p model.Payment) error {
	if !p.IsReversed() {
		return fmt.Errorf("%w: payment %s is not reversed", model.ErrInvalidInput, p.ID())
	}
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE payments SET reversed_at = $2 WHERE id = $1 AND reversed_at IS NULL`,
		p.ID(), p.ReversedAt(),
	)
	if err != nil {
		return fmt.Errorf("reverse payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payment %s: %w", p.ID(), model.ErrPaymentAlreadyReversed)
	}
	return nil
}

// FindByID retrieves a payment by ID.
func (r *PaymentRepo) FindByID(ctx context.Context, id string) (model.Payment, error) {
	row := pgutil.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id)
	p, err := scanPayment(row)
	if err != nil {
		return model.Payment{}, notFound(err, "payment", id)
	}
	return p, nil
}

// ListByLoan returns every payment of a loan, reversed ones included, oldest
// first.
func (r *PaymentRepo) ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error) {
	rows, err := pgutil.Conn(ctx, r.pool).Query(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE loan_id = $1 ORDER BY created_at, id`, loanID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPayment(s scannable) (model.Payment, error) {
	var (
		id, loanID        string
		periodIndex       int
		amount            decimal.Decimal
		paidOn, createdAt time.Time
		reversedAt        *time.Time
	)
	if err := s.Scan(&id, &loanID, &periodIndex, &amount, &paidOn, &createdAt, &reversedAt); err != nil {
		return model.Payment{}, err
	}
	return model.ReconstructPayment(id, loanID, periodIndex, amount, paidOn, createdAt, reversedAt), nil
}
