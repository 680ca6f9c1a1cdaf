package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// ManageCompaniesUseCase maintains the employer company catalogue.
type ManageCompaniesUseCase struct {
	companyRepo port.CompanyRepository
	evaluator   *service.StatusEvaluator
}

// NewManageCompaniesUseCase wires dependencies.
func NewManageCompaniesUseCase(
	companyRepo port.CompanyRepository,
	evaluator *service.StatusEvaluator,
) *ManageCompaniesUseCase {
	return &ManageCompaniesUseCase{
		companyRepo: companyRepo,
		evaluator:   evaluator,
	}
}

// Create adds a company. Names are unique.
func (uc *ManageCompaniesUseCase) Create(
	ctx context.Context,
	req dto.CreateCompanyRequest,
) (dto.CompanyResponse, error) {
	company, err := model.NewCompany(req.Name, uc.evaluator.Now())
	if err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("create company: %w", err)
	}
	if err := uc.companyRepo.Save(ctx, company); err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("save company: %w", err)
	}
	return toCompanyResponse(company), nil
}

// List returns every company ordered by name.
func (uc *ManageCompaniesUseCase) List(ctx context.Context) ([]dto.CompanyResponse, error) {
	companies, err := uc.companyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	out := make([]dto.CompanyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

// Rename changes the name of an existing company.
func (uc *ManageCompaniesUseCase) Rename(
	ctx context.Context,
	req dto.RenameCompanyRequest,
) (dto.CompanyResponse, error) {
	company, err := uc.companyRepo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("find company: %w", err)
	}
	company, err = company.Rename(req.Name)
	if err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("rename company: %w", err)
	}
	if err := uc.companyRepo.Update(ctx, company); err != nil {
		return dto.CompanyResponse{}, fmt.Errorf("save company: %w", err)
	}
	return toCompanyResponse(company), nil
}

// Delete removes a company. Borrowers linked to it are detached.
func (uc *ManageCompaniesUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.companyRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}
