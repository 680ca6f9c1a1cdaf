package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// GetDashboardUseCase assembles the back-office summary, serving it from the
// cache while no domain event has invalidated it.
type GetDashboardUseCase struct {
	queries   port.DashboardQueries
	cache     port.DashboardCache
	evaluator *service.StatusEvaluator
}

// NewGetDashboardUseCase wires dependencies. cache may be nil.
func NewGetDashboardUseCase(
	queries port.DashboardQueries,
	cache port.DashboardCache,
	evaluator *service.StatusEvaluator,
) *GetDashboardUseCase {
	return &GetDashboardUseCase{
		queries:   queries,
		cache:     cache,
		evaluator: evaluator,
	}
}

// Execute returns the dashboard. Cache failures fall back to the database.
func (uc *GetDashboardUseCase) Execute(ctx context.Context) (model.Dashboard, error) {
	if uc.cache != nil {
		if d, ok, err := uc.cache.Get(ctx); err == nil && ok {
			return uc.markOverdue(d), nil
		}
	}

	d, err := uc.compute(ctx)
	if err != nil {
		return model.Dashboard{}, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, d)
	}
	return uc.markOverdue(d), nil
}

func (uc *GetDashboardUseCase) compute(ctx context.Context) (model.Dashboard, error) {
	var (
		d   model.Dashboard
		err error
	)
	d.GeneratedAt = uc.evaluator.Now()

	if d.PendingApplications, err = uc.queries.CountPendingApplications(ctx); err != nil {
		return model.Dashboard{}, fmt.Errorf("count pending applications: %w", err)
	}
	if d.ActiveLoans, err = uc.queries.CountActiveLoans(ctx); err != nil {
		return model.Dashboard{}, fmt.Errorf("count active loans: %w", err)
	}
	if d.TotalOutstanding, err = uc.queries.TotalOutstanding(ctx); err != nil {
		return model.Dashboard{}, fmt.Errorf("total outstanding: %w", err)
	}
	if d.TotalInterestEarned, err = uc.queries.TotalInterestEarned(ctx); err != nil {
		return model.Dashboard{}, fmt.Errorf("total interest earned: %w", err)
	}
	if d.UpcomingPayments, err = uc.queries.UpcomingPayments(ctx, model.DashboardUpcomingLimit); err != nil {
		return model.Dashboard{}, fmt.Errorf("upcoming payments: %w", err)
	}
	if d.NextDueDates, err = uc.queries.NextDueDates(ctx, model.DashboardDueDateLimit); err != nil {
		return model.Dashboard{}, fmt.Errorf("next due dates: %w", err)
	}
	if d.RecentPayments, err = uc.queries.RecentPayments(ctx, model.DashboardRecentLimit); err != nil {
		return model.Dashboard{}, fmt.Errorf("recent payments: %w", err)
	}
	return d, nil
}

// markOverdue flags upcoming payments against today; a cached dashboard can
// outlive midnight.
func (uc *GetDashboardUseCase) markOverdue(d model.Dashboard) model.Dashboard {
	upcoming := make([]model.UpcomingPayment, len(d.UpcomingPayments))
	for i, p := range d.UpcomingPayments {
		p.Overdue = uc.evaluator.IsOverdue(p.DueDate)
		upcoming[i] = p
	}
	d.UpcomingPayments = upcoming
	return d
}
