package payroll

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
)

type PayrollService interface {
	// Salary records
	ListSalaries(ctx context.Context) ([]SalaryResponse, error)
	UpsertSalary(ctx context.Context, req UpsertSalaryRequest) (SalaryResponse, error)
	GetSalaryByEmployee(ctx context.Context, session auth.Session, employeeID string) (SalaryResponse, error)
	UpdateSalary(ctx context.Context, id string, req UpdateSalaryRequest) (SalaryResponse, error)

	// Deductions
	GetAbsentDeduction(ctx context.Context, session auth.Session, q summary.RangeQuery) (AbsentDeductionResponse, error)
	GetHalfDayDeduction(ctx context.Context, session auth.Session, q summary.RangeQuery) (HalfDayDeductionResponse, error)
	GetLateDeduction(ctx context.Context, session auth.Session, q summary.MonthQuery) (LateDeductionResponse, error)
	GetOverview(ctx context.Context, session auth.Session, q summary.MonthQuery) (OverviewResponse, error)
}
