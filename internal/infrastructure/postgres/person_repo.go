package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	pgutil "github.com/andresv02/loan-management-system/pkg/postgres"
)

const personColumns = `p.id, p.cedula, p.first_name, p.last_name, p.email, p.phone, p.address,
	p.company_id, p.monthly_salary, p.months_employed, p.contract_start, p.created_at`

// PersonRepo implements port.PersonRepository.
type PersonRepo struct {
	pool *pgxpool.Pool
}

// NewPersonRepo creates a new PostgreSQL-backed person repository.
func NewPersonRepo(pool *pgxpool.Pool) *PersonRepo {
	return &PersonRepo{pool: pool}
}

// Save inserts a person. A duplicate cedula yields model.ErrAlreadyExists.
func (r *PersonRepo) Save(ctx context.Context, p model.Person) error {
	query := `
		INSERT INTO persons (
			id, cedula, first_name, last_name, email, phone, address,
			company_id, monthly_salary, months_employed, contract_start, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`
	_, err := pgutil.Conn(ctx, r.pool).Exec(ctx, query,
		p.ID(), p.Cedula(), p.FirstName(), p.LastName(), p.Email(), p.Phone(), p.Address(),
		nullableString(p.CompanyID()), p.MonthlySalary(), p.MonthsEmployed(),
		nullableDate(p.ContractStart()), p.CreatedAt(),
	)
	if err != nil {
		return writeErr(err, "save person")
	}
	return nil
}

// UpdateCompany links a person to a company.
func (r *PersonRepo) UpdateCompany(ctx context.Context, personID, companyID string) error {
	tag, err := pgutil.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE persons SET company_id = $2 WHERE id = $1`, personID, nullableString(companyID))
	if err != nil {
		return writeErr(err, "update person company")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("person %s: %w", personID, model.ErrNotFound)
	}
	return nil
}

// FindByID retrieves a person by ID.
func (r *PersonRepo) FindByID(ctx context.Context, id string) (model.Person, error) {
	row := pgutil.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+personColumns+` FROM persons p WHERE p.id = $1`, id)
	p, err := scanPerson(row)
	if err != nil {
		return model.Person{}, notFound(err, "person", id)
	}
	return p, nil
}

// FindByCedula retrieves a person by national ID number.
func (r *PersonRepo) FindByCedula(ctx context.Context, cedula string) (model.Person, error) {
	row := pgutil.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+personColumns+` FROM persons p WHERE p.cedula = $1`, cedula)
	p, err := scanPerson(row)
	if err != nil {
		return model.Person{}, notFound(err, "person with cedula", cedula)
	}
	return p, nil
}

type personRow struct {
	createdAt     time.Time
	contractStart *time.Time
	companyID     *string
	id            string
	d             model.PersonDetails
}

func (p *personRow) targets() []any {
	return []any{
		&p.id, &p.d.Cedula, &p.d.FirstName, &p.d.LastName, &p.d.Email, &p.d.Phone, &p.d.Address,
		&p.companyID, &p.d.MonthlySalary, &p.d.MonthsEmployed, &p.contractStart, &p.createdAt,
	}
}

func (p *personRow) toModel() model.Person {
	p.d.CompanyID = derefString(p.companyID)
	p.d.ContractStart = derefTime(p.contractStart)
	return model.ReconstructPerson(p.id, p.d, p.createdAt)
}

func scanPerson(s scannable) (model.Person, error) {
	var row personRow
	if err := s.Scan(row.targets()...); err != nil {
		return model.Person{}, err
	}
	return row.toModel(), nil
}
