package usecase

import (
	"time"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

func toCompanyResponse(c model.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:        c.ID(),
		Name:      c.Name(),
		CreatedAt: c.CreatedAt(),
	}
}

func toBorrowerResponse(p model.Person) *dto.BorrowerResponse {
	if p.ID() == "" {
		return nil
	}
	return &dto.BorrowerResponse{
		ID:             p.ID(),
		Cedula:         p.Cedula(),
		FirstName:      p.FirstName(),
		LastName:       p.LastName(),
		FullName:       p.FullName(),
		Email:          p.Email(),
		Phone:          p.Phone(),
		Address:        p.Address(),
		CompanyID:      p.CompanyID(),
		MonthlySalary:  p.MonthlySalary(),
		MonthsEmployed: p.MonthsEmployed(),
	}
}

func toApplicationResponse(app model.LoanApplication, borrower model.Person) dto.ApplicationResponse {
	bank := app.BankAccount()
	return dto.ApplicationResponse{
		ID:                app.ID(),
		PersonID:          app.PersonID(),
		RequestedAmount:   app.RequestedAmount(),
		DurationMonths:    app.DurationMonths(),
		PeriodCount:       app.PeriodCount(),
		IDPhotoURLs:       app.IDPhotoURLs(),
		BankAccountType:   bank.Type,
		BankAccountNumber: bank.Number,
		BankName:          bank.Bank,
		Employer:          app.Employer(),
		Status:            app.Status().String(),
		CreatedAt:         app.CreatedAt(),
		Borrower:          toBorrowerResponse(borrower),
	}
}

func toInstallmentResponse(row model.Installment, eval *service.StatusEvaluator) dto.InstallmentResponse {
	effective := row.Status
	if eval != nil {
		effective = eval.InstallmentStatus(row)
	}
	return dto.InstallmentResponse{
		PeriodIndex:     row.PeriodIndex,
		DueDate:         row.DueDate,
		Amount:          row.Amount,
		Interest:        row.Interest,
		Capital:         row.Capital,
		OpeningBalance:  row.OpeningBalance,
		ClosingBalance:  row.ClosingBalance,
		Status:          row.Status.String(),
		EffectiveStatus: effective.String(),
	}
}

func toInstallmentResponses(rows []model.Installment, eval *service.StatusEvaluator) []dto.InstallmentResponse {
	out := make([]dto.InstallmentResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toInstallmentResponse(row, eval))
	}
	return out
}

func toScheduleResponse(plan model.AmortizationPlan) dto.ScheduleResponse {
	return dto.ScheduleResponse{
		InstallmentAmount: plan.InstallmentAmount,
		ImpliedRate:       plan.ImpliedRate,
		TotalInterest:     plan.TotalInterest(),
		TotalCapital:      plan.TotalCapital(),
		Rows:              toInstallmentResponses(plan.Rows, nil),
	}
}

// toLoanResponse maps a fully loaded loan, schedule included.
func toLoanResponse(loan model.Loan, borrower model.Person, eval *service.StatusEvaluator) dto.LoanResponse {
	resp := toLoanSummary(loan, borrower)
	resp.EffectiveStatus = eval.LoanStatus(loan).String()
	resp.Schedule = toInstallmentResponses(loan.Schedule(), eval)
	return resp
}

// toListedLoanResponse maps a loan loaded without its schedule.
func toListedLoanResponse(loan model.Loan, borrower model.Person, eval *service.StatusEvaluator) dto.LoanResponse {
	resp := toLoanSummary(loan, borrower)
	resp.EffectiveStatus = eval.ListedLoanStatus(loan).String()
	return resp
}

func toLoanSummary(loan model.Loan, borrower model.Person) dto.LoanResponse {
	return dto.LoanResponse{
		ID:                 loan.ID(),
		ApplicationID:      loan.ApplicationID(),
		Principal:          loan.Principal(),
		TotalInterest:      loan.TotalInterest(),
		InstallmentAmount:  loan.InstallmentAmount(),
		PeriodCount:        loan.PeriodCount(),
		OutstandingBalance: loan.OutstandingBalance(),
		NextDueDate:        optionalDate(loan.NextDueDate()),
		Status:             loan.Status().String(),
		EffectiveStatus:    loan.Status().String(),
		Version:            loan.Version(),
		Borrower:           toBorrowerResponse(borrower),
		CreatedAt:          loan.CreatedAt(),
		UpdatedAt:          loan.UpdatedAt(),
	}
}

func toPaymentResponse(p model.Payment, loan model.Loan) dto.PaymentResponse {
	return dto.PaymentResponse{
		PaymentID:          p.ID(),
		LoanID:             p.LoanID(),
		PeriodIndex:        p.PeriodIndex(),
		Amount:             p.Amount(),
		PaidOn:             p.PaidOn(),
		ReversedAt:         p.ReversedAt(),
		OutstandingBalance: loan.OutstandingBalance(),
		LoanStatus:         loan.Status().String(),
		NextDueDate:        optionalDate(loan.NextDueDate()),
	}
}

func optionalDate(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
