package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// LoanApplication aggregate root (solicitud)
// ---------------------------------------------------------------------------

// BankAccount is the disbursement account given with a loan request.
type BankAccount struct {
	Type   string
	Number string
	Bank   string
}

// ApplicationRequest holds the fields of a new loan request.
type ApplicationRequest struct {
	RequestedAmount decimal.Decimal
	PersonID        string
	Employer        string
	BankAccount     BankAccount
	IDPhotoURLs     []string
	DurationMonths  int
}

// LoanApplication is an immutable aggregate. Every mutation returns a new copy.
type LoanApplication struct {
	createdAt       time.Time
	requestedAmount decimal.Decimal
	status          valueobject.ApplicationStatus
	id              string
	personID        string
	employer        string
	bankAccount     BankAccount
	idPhotoURLs     []string
	domainEvents    []event.DomainEvent
	durationMonths  int
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoanApplication creates a request in nueva status.
func NewLoanApplication(req ApplicationRequest, now time.Time) (LoanApplication, error) {
	if req.PersonID == "" {
		return LoanApplication{}, fmt.Errorf("%w: person ID is required", ErrInvalidInput)
	}
	if !req.RequestedAmount.IsPositive() {
		return LoanApplication{}, fmt.Errorf("%w: requested amount must be positive", ErrInvalidInput)
	}
	if req.DurationMonths <= 0 {
		return LoanApplication{}, fmt.Errorf("%w: duration months must be positive", ErrInvalidInput)
	}

	app := LoanApplication{
		id:              uuid.New().String(),
		personID:        req.PersonID,
		requestedAmount: req.RequestedAmount,
		durationMonths:  req.DurationMonths,
		idPhotoURLs:     append([]string(nil), req.IDPhotoURLs...),
		bankAccount:     req.BankAccount,
		employer:        req.Employer,
		status:          valueobject.ApplicationStatusNew,
		createdAt:       now,
	}
	app.domainEvents = []event.DomainEvent{
		event.NewApplicationSubmitted(app.id, app.personID, app.requestedAmount, app.durationMonths, now),
	}
	return app, nil
}

// ReconstructLoanApplication rebuilds an application from persisted state.
func ReconstructLoanApplication(
	id string,
	req ApplicationRequest,
	status valueobject.ApplicationStatus,
	createdAt time.Time,
) LoanApplication {
	return LoanApplication{
		id:              id,
		personID:        req.PersonID,
		requestedAmount: req.RequestedAmount,
		durationMonths:  req.DurationMonths,
		idPhotoURLs:     append([]string(nil), req.IDPhotoURLs...),
		bankAccount:     req.BankAccount,
		employer:        req.Employer,
		status:          status,
		createdAt:       createdAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// Approve moves a nueva application to aprobada.
func (a LoanApplication) Approve() (LoanApplication, error) {
	if !a.status.Equal(valueobject.ApplicationStatusNew) {
		return LoanApplication{}, fmt.Errorf("%w: cannot approve application in status %s",
			valueobject.ErrInvalidStatusTransition, a.status)
	}
	next := a.clone()
	next.status = valueobject.ApplicationStatusApproved
	return next, nil
}

// Decline moves a nueva application to rechazada. loanID is the rejected loan
// shell recorded alongside it.
func (a LoanApplication) Decline(loanID string, now time.Time) (LoanApplication, error) {
	if !a.status.Equal(valueobject.ApplicationStatusNew) {
		return LoanApplication{}, fmt.Errorf("%w: cannot decline application in status %s",
			valueobject.ErrInvalidStatusTransition, a.status)
	}
	next := a.clone()
	next.status = valueobject.ApplicationStatusRejected
	next.domainEvents = append(next.domainEvents, event.NewApplicationDeclined(a.id, a.personID, loanID, now))
	return next, nil
}

// PeriodCount is the number of quincenas in the requested duration.
func (a LoanApplication) PeriodCount() int {
	return a.durationMonths * 2
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (a LoanApplication) ID() string                            { return a.id }
func (a LoanApplication) PersonID() string                      { return a.personID }
func (a LoanApplication) RequestedAmount() decimal.Decimal      { return a.requestedAmount }
func (a LoanApplication) DurationMonths() int                   { return a.durationMonths }
func (a LoanApplication) BankAccount() BankAccount              { return a.bankAccount }
func (a LoanApplication) Employer() string                      { return a.employer }
func (a LoanApplication) Status() valueobject.ApplicationStatus { return a.status }
func (a LoanApplication) CreatedAt() time.Time                  { return a.createdAt }
func (a LoanApplication) DomainEvents() []event.DomainEvent     { return a.domainEvents }

// IDPhotoURLs returns a copy of the identity document photo links.
func (a LoanApplication) IDPhotoURLs() []string {
	return append([]string(nil), a.idPhotoURLs...)
}

// ClearEvents returns a copy with no pending domain events.
func (a LoanApplication) ClearEvents() LoanApplication {
	a.domainEvents = nil
	return a
}

func (a LoanApplication) clone() LoanApplication {
	a.idPhotoURLs = append([]string(nil), a.idPhotoURLs...)
	a.domainEvents = copyEvents(a.domainEvents)
	return a
}

func copyEvents(src []event.DomainEvent) []event.DomainEvent {
	if len(src) == 0 {
		return nil
	}
	dst := make([]event.DomainEvent, len(src))
	copy(dst, src)
	return dst
}
