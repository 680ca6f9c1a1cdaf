package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PersonDetails carries the borrower data captured with a loan request.
type PersonDetails struct {
	ContractStart  time.Time
	MonthlySalary  decimal.Decimal
	Cedula         string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Address        string
	CompanyID      string
	MonthsEmployed int
}

// Person is a borrower, identified in the business by their cedula.
type Person struct {
	details   PersonDetails
	id        string
	createdAt time.Time
}

// NewPerson validates the borrower details and assigns a new ID.
func NewPerson(d PersonDetails, now time.Time) (Person, error) {
	d.Cedula = strings.TrimSpace(d.Cedula)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)

	switch {
	case d.Cedula == "":
		return Person{}, fmt.Errorf("%w: cedula is required", ErrInvalidInput)
	case d.FirstName == "" || d.LastName == "":
		return Person{}, fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	case d.MonthlySalary.IsNegative():
		return Person{}, fmt.Errorf("%w: monthly salary must not be negative", ErrInvalidInput)
	case d.MonthsEmployed < 0:
		return Person{}, fmt.Errorf("%w: months employed must not be negative", ErrInvalidInput)
	}

	return Person{
		id:        uuid.New().String(),
		details:   d,
		createdAt: now,
	}, nil
}

// ReconstructPerson rebuilds a Person from persisted state.
func ReconstructPerson(id string, d PersonDetails, createdAt time.Time) Person {
	return Person{id: id, details: d, createdAt: createdAt}
}

// AssignCompany returns a copy of the person linked to companyID.
func (p Person) AssignCompany(companyID string) Person {
	p.details.CompanyID = companyID
	return p
}

// FullName joins first and last name.
func (p Person) FullName() string {
	return strings.TrimSpace(p.details.FirstName + " " + p.details.LastName)
}

func (p Person) ID() string                     { return p.id }
func (p Person) Cedula() string                 { return p.details.Cedula }
func (p Person) FirstName() string              { return p.details.FirstName }
func (p Person) LastName() string               { return p.details.LastName }
func (p Person) Email() string                  { return p.details.Email }
func (p Person) Phone() string                  { return p.details.Phone }
func (p Person) Address() string                { return p.details.Address }
func (p Person) CompanyID() string              { return p.details.CompanyID }
func (p Person) MonthlySalary() decimal.Decimal { return p.details.MonthlySalary }
func (p Person) MonthsEmployed() int            { return p.details.MonthsEmployed }
func (p Person) ContractStart() time.Time       { return p.details.ContractStart }
func (p Person) Details() PersonDetails         { return p.details }
func (p Person) CreatedAt() time.Time           { return p.createdAt }
