package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Use case ports
// ---------------------------------------------------------------------------

type CompanyService interface {
	Create(ctx context.Context, req dto.CreateCompanyRequest) (dto.CompanyResponse, error)
	List(ctx context.Context) ([]dto.CompanyResponse, error)
	Rename(ctx context.Context, req dto.RenameCompanyRequest) (dto.CompanyResponse, error)
	Delete(ctx context.Context, id string) error
}

type ApplicationSubmitter interface {
	Execute(ctx context.Context, req dto.SubmitApplicationRequest) (dto.ApplicationResponse, error)
}

type ApplicationLister interface {
	Execute(ctx context.Context, req dto.ListApplicationsRequest) (dto.ApplicationListResponse, error)
}

type ApplicationApprover interface {
	Execute(ctx context.Context, req dto.ApproveApplicationRequest) (dto.LoanResponse, error)
}

type ApplicationDecliner interface {
	Execute(ctx context.Context, req dto.DeclineApplicationRequest) (dto.DeclineApplicationResponse, error)
}

type SchedulePreviewer interface {
	Execute(ctx context.Context, req dto.PreviewScheduleRequest) (dto.ScheduleResponse, error)
}

type LoanReader interface {
	Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error)
}

type LoanLister interface {
	Execute(ctx context.Context, req dto.ListLoansRequest) (dto.LoanListResponse, error)
}

type LoanDeleter interface {
	Execute(ctx context.Context, loanID string) error
}

type NextPaymentFinder interface {
	Execute(ctx context.Context, req dto.GetLoanRequest) (dto.NextPaymentResponse, error)
}

type InstallmentLister interface {
	Execute(ctx context.Context, req dto.GetLoanRequest) (dto.AvailableInstallmentsResponse, error)
}

type PaymentRecorder interface {
	Execute(ctx context.Context, req dto.RecordPaymentRequest) (dto.PaymentResponse, error)
}

type PaymentReverser interface {
	Execute(ctx context.Context, req dto.ReversePaymentRequest) (dto.PaymentResponse, error)
}

type DashboardReader interface {
	Execute(ctx context.Context) (model.Dashboard, error)
}

// Services groups the use cases served by the back-office API.
type Services struct {
	Companies             CompanyService
	SubmitApplication     ApplicationSubmitter
	ListApplications      ApplicationLister
	ApproveApplication    ApplicationApprover
	DeclineApplication    ApplicationDecliner
	PreviewSchedule       SchedulePreviewer
	GetLoan               LoanReader
	ListLoans             LoanLister
	DeleteLoan            LoanDeleter
	NextPayment           NextPaymentFinder
	AvailableInstallments InstallmentLister
	RecordPayment         PaymentRecorder
	ReversePayment        PaymentReverser
	Dashboard             DashboardReader
}

// Handler serves the back-office REST API.
type Handler struct {
	svc    Services
	logger *slog.Logger
}

// NewHandler creates the REST handler.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// ---------------------------------------------------------------------------
// Request bodies
// ---------------------------------------------------------------------------

// Dates travel as YYYY-MM-DD strings; amounts accept JSON numbers or strings.

type companyBody struct {
	Name string `json:"name"`
}

type submitApplicationBody struct {
	ContractStart     string          `json:"contract_start,omitempty"`
	MonthlySalary     decimal.Decimal `json:"monthly_salary"`
	RequestedAmount   decimal.Decimal `json:"requested_amount"`
	Cedula            string          `json:"cedula"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	Email             string          `json:"email,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Address           string          `json:"address,omitempty"`
	CompanyID         string          `json:"company_id,omitempty"`
	BankAccountType   string          `json:"bank_account_type"`
	BankAccountNumber string          `json:"bank_account_number"`
	BankName          string          `json:"bank_name"`
	Employer          string          `json:"employer"`
	IDPhotoURLs       []string        `json:"id_photo_urls,omitempty"`
	MonthsEmployed    int             `json:"months_employed"`
	DurationMonths    int             `json:"duration_months"`
}

type approveBody struct {
	TargetInterest decimal.Decimal `json:"target_interest"`
	FirstDueDate   string          `json:"first_due_date,omitempty"`
	CompanyID      string          `json:"company_id,omitempty"`
}

type previewBody struct {
	Principal      decimal.Decimal `json:"principal"`
	TargetInterest decimal.Decimal `json:"target_interest"`
	FirstDueDate   string          `json:"first_due_date,omitempty"`
	PeriodCount    int             `json:"period_count,omitempty"`
	DurationMonths int             `json:"duration_months,omitempty"`
}

type paymentBody struct {
	Amount      decimal.Decimal `json:"amount"`
	PaidOn      string          `json:"paid_on,omitempty"`
	PeriodIndex int             `json:"period_index"`
}

// ---------------------------------------------------------------------------
// Companies
// ---------------------------------------------------------------------------

func (h *Handler) listCompanies(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Companies.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createCompany(w http.ResponseWriter, r *http.Request) {
	var body companyBody
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.svc.Companies.Create(r.Context(), dto.CreateCompanyRequest{Name: body.Name})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) renameCompany(w http.ResponseWriter, r *http.Request) {
	var body companyBody
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.svc.Companies.Rename(r.Context(), dto.RenameCompanyRequest{
		ID:   chi.URLParam(r, "id"),
		Name: body.Name,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteCompany(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Companies.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Applications
// ---------------------------------------------------------------------------

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := dto.ParseDate("from", q.Get("from"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	to, err := dto.ParseDate("to", q.Get("to"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !to.IsZero() {
		// Inclusive of the whole "to" day.
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	page, err := queryInt(q.Get("page"), "page")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	limit, err := queryInt(q.Get("limit"), "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.ListApplications.Execute(r.Context(), dto.ListApplicationsRequest{
		CreatedFrom: from,
		CreatedTo:   to,
		Status:      q.Get("status"),
		Page:        page,
		Limit:       limit,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) submitApplication(w http.ResponseWriter, r *http.Request) {
	var body submitApplicationBody
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	contractStart, err := dto.ParseDate("contract_start", body.ContractStart)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.SubmitApplication.Execute(r.Context(), dto.SubmitApplicationRequest{
		ContractStart:     contractStart,
		MonthlySalary:     body.MonthlySalary,
		RequestedAmount:   body.RequestedAmount,
		Cedula:            body.Cedula,
		FirstName:         body.FirstName,
		LastName:          body.LastName,
		Email:             body.Email,
		Phone:             body.Phone,
		Address:           body.Address,
		CompanyID:         body.CompanyID,
		BankAccountType:   body.BankAccountType,
		BankAccountNumber: body.BankAccountNumber,
		BankName:          body.BankName,
		Employer:          body.Employer,
		IDPhotoURLs:       body.IDPhotoURLs,
		MonthsEmployed:    body.MonthsEmployed,
		DurationMonths:    body.DurationMonths,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) approveApplication(w http.ResponseWriter, r *http.Request) {
	var body approveBody
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	first, err := dto.ParseDate("first_due_date", body.FirstDueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.ApproveApplication.Execute(r.Context(), dto.ApproveApplicationRequest{
		FirstDueDate:   first,
		TargetInterest: body.TargetInterest,
		ApplicationID:  chi.URLParam(r, "id"),
		CompanyID:      body.CompanyID,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) declineApplication(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.DeclineApplication.Execute(r.Context(), dto.DeclineApplicationRequest{
		ApplicationID: chi.URLParam(r, "id"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) previewSchedule(w http.ResponseWriter, r *http.Request) {
	var body previewBody
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	first, err := dto.ParseDate("first_due_date", body.FirstDueDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.PreviewSchedule.Execute(r.Context(), dto.PreviewScheduleRequest{
		FirstDueDate:   first,
		Principal:      body.Principal,
		TargetInterest: body.TargetInterest,
		PeriodCount:    body.PeriodCount,
		DurationMonths: body.DurationMonths,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---------------------------------------------------------------------------
// Loans and payments
// ---------------------------------------------------------------------------

func (h *Handler) listLoans(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListLoans.Execute(r.Context(), dto.ListLoansRequest{Status: r.URL.Query().Get("status")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getLoan(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.GetLoan.Execute(r.Context(), dto.GetLoanRequest{LoanID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) deleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteLoan.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) nextPayment(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.NextPayment.Execute(r.Context(), dto.GetLoanRequest{LoanID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) availableInstallments(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.AvailableInstallments.Execute(r.Context(), dto.GetLoanRequest{LoanID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var body paymentBody
	if err := decodeJSON(r, &body); err != nil {
		h.fail(w, r, err)
		return
	}
	paidOn, err := dto.ParseDate("paid_on", body.PaidOn)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.svc.RecordPayment.Execute(r.Context(), dto.RecordPaymentRequest{
		PaidOn:      paidOn,
		Amount:      body.Amount,
		LoanID:      chi.URLParam(r, "id"),
		PeriodIndex: body.PeriodIndex,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handler) reversePayment(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ReversePayment.Execute(r.Context(), dto.ReversePaymentRequest{PaymentID: chi.URLParam(r, "id")})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.Dashboard.Execute(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s %q", model.ErrInvalidInput, name, raw)
	}
	return n, nil
}
