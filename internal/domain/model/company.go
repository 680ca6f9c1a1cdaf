package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company is an employer that borrowers can be assigned to.
type Company struct {
	id        string
	name      string
	createdAt time.Time
}

// NewCompany creates a company with a trimmed, non-empty name.
func NewCompany(name string, now time.Time) (Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Company{}, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	return Company{
		id:        uuid.New().String(),
		name:      name,
		createdAt: now,
	}, nil
}

// ReconstructCompany rebuilds a Company from persisted state.
func ReconstructCompany(id, name string, createdAt time.Time) Company {
	return Company{id: id, name: name, createdAt: createdAt}
}

// Rename returns a copy of the company carrying the new name.
func (c Company) Rename(name string) (Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Company{}, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	c.name = name
	return c, nil
}

func (c Company) ID() string           { return c.id }
func (c Company) Name() string         { return c.name }
func (c Company) CreatedAt() time.Time { return c.createdAt }
