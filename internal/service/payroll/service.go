package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	salaryRepo     payroll.SalaryRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	summaries      summary.SummaryService
	engine         payroll.Engine
	loc            *time.Location
}

func NewPayrollService(
	salaryRepo payroll.SalaryRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	summaries summary.SummaryService,
	engine payroll.Engine,
	loc *time.Location,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		salaryRepo:     salaryRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		summaries:      summaries,
		engine:         engine,
		loc:            loc,
	}
}

// ========== SALARY RECORDS ==========

func (s *PayrollServiceImpl) ListSalaries(ctx context.Context) ([]payroll.SalaryResponse, error) {
	salaries, err := s.salaryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries: %w", err)
	}

	out := make([]payroll.SalaryResponse, 0, len(salaries))
	for _, sr := range salaries {
		out = append(out, payroll.NewSalaryResponse(sr))
	}
	return out, nil
}

func (s *PayrollServiceImpl) UpsertSalary(ctx context.Context, req payroll.UpsertSalaryRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	record := payroll.SalaryRecord{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: emp.ID,
		BaseSalary: req.BaseSalary,
		Bonuses:    req.Bonuses,
		Deductions: req.Deductions,
	}
	record.Recalculate()

	saved, err := s.salaryRepo.Upsert(ctx, record)
	if err != nil {
		return payroll.SalaryResponse{}, fmt.Errorf("failed to save salary: %w", err)
	}
	if saved.EmployeeName == nil {
		saved.EmployeeName = &emp.FullName
	}

	slog.Info("salary upserted", "employee_id", emp.ID, "total_salary", saved.TotalSalary.String())
	return payroll.NewSalaryResponse(saved), nil
}

func (s *PayrollServiceImpl) GetSalaryByEmployee(ctx context.Context, session auth.Session, employeeID string) (payroll.SalaryResponse, error) {
	resolved, err := session.ResolveEmployee(employeeID)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	record, err := s.salaryRepo.GetByEmployeeID(ctx, resolved)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}
	return payroll.NewSalaryResponse(record), nil
}

func (s *PayrollServiceImpl) UpdateSalary(ctx context.Context, id string, req payroll.UpdateSalaryRequest) (payroll.SalaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SalaryResponse{}, err
	}
	record, err := s.salaryRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.SalaryResponse{}, err
	}

	req.Apply(&record)

	updated, err := s.salaryRepo.Update(ctx, record)
	if err != nil {
		return payroll.SalaryResponse{}, fmt.Errorf("failed to update salary: %w", err)
	}
	return payroll.NewSalaryResponse(updated), nil
}

// ========== DEDUCTIONS ==========

// salaryFor loads the salary the deduction endpoints are computed against.
func (s *PayrollServiceImpl) salaryFor(ctx context.Context, employeeID string) (payroll.SalaryRecord, error) {
	record, err := s.salaryRepo.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, payroll.ErrSalaryNotFound) {
			return payroll.SalaryRecord{}, payroll.ErrEmployeeHasNoSalary
		}
		return payroll.SalaryRecord{}, err
	}
	return record, nil
}

// rangeInputs resolves the employee, validates the range and loads the
// salary and the classified summary for it.
func (s *PayrollServiceImpl) rangeInputs(ctx context.Context, session auth.Session, q *summary.RangeQuery) (payroll.SalaryRecord, summary.Summary, error) {
	if err := q.Validate(); err != nil {
		return payroll.SalaryRecord{}, summary.Summary{}, err
	}
	employeeID, err := session.ResolveEmployee(q.EmployeeID)
	if err != nil {
		return payroll.SalaryRecord{}, summary.Summary{}, err
	}
	salary, err := s.salaryFor(ctx, employeeID)
	if err != nil {
		return payroll.SalaryRecord{}, summary.Summary{}, err
	}
	result, err := s.summaries.Summarize(ctx, employeeID, q.Start, q.End)
	if err != nil {
		return payroll.SalaryRecord{}, summary.Summary{}, err
	}
	return salary, result, nil
}

func (s *PayrollServiceImpl) GetAbsentDeduction(ctx context.Context, session auth.Session, q summary.RangeQuery) (payroll.AbsentDeductionResponse, error) {
	salary, result, err := s.rangeInputs(ctx, session, &q)
	if err != nil {
		return payroll.AbsentDeductionResponse{}, err
	}

	daily := payroll.DailySalary(salary.BaseSalary, q.Start.Month(), q.Start.Year())
	d := s.engine.ComputeDeductions(daily, result, salary)

	return payroll.AbsentDeductionResponse{
		EmployeeID:     result.EmployeeID,
		StartDate:      timeutil.DateKey(q.Start),
		EndDate:        timeutil.DateKey(q.End),
		TotalAbsents:   result.TotalAbsents,
		DailySalary:    d.DailySalary.Round(2),
		TotalDeduction: d.AbsentDeduction.Round(2),
		AbsentDates:    summary.NewAbsentDateResponses(result.AbsentDates),
	}, nil
}

func (s *PayrollServiceImpl) GetHalfDayDeduction(ctx context.Context, session auth.Session, q summary.RangeQuery) (payroll.HalfDayDeductionResponse, error) {
	salary, result, err := s.rangeInputs(ctx, session, &q)
	if err != nil {
		return payroll.HalfDayDeductionResponse{}, err
	}

	daily := payroll.DailySalary(salary.BaseSalary, q.Start.Month(), q.Start.Year())
	d := s.engine.ComputeDeductions(daily, result, salary)

	return payroll.HalfDayDeductionResponse{
		EmployeeID:     result.EmployeeID,
		StartDate:      timeutil.DateKey(q.Start),
		EndDate:        timeutil.DateKey(q.End),
		TotalHalfDays:  result.TotalHalfDays,
		DailySalary:    d.DailySalary.Round(2),
		TotalDeduction: d.HalfDayDeduction.Round(2),
		HalfDayDetails: summary.NewHalfDayResponses(result.HalfDays, s.loc),
	}, nil
}

func (s *PayrollServiceImpl) GetLateDeduction(ctx context.Context, session auth.Session, q summary.MonthQuery) (payroll.LateDeductionResponse, error) {
	if err := q.Validate(); err != nil {
		return payroll.LateDeductionResponse{}, err
	}
	employeeID, err := session.ResolveEmployee(q.EmployeeID)
	if err != nil {
		return payroll.LateDeductionResponse{}, err
	}
	salary, err := s.salaryFor(ctx, employeeID)
	if err != nil {
		return payroll.LateDeductionResponse{}, err
	}

	lates, err := s.attendanceRepo.ListLateCheckins(ctx, employeeID, q.Start, q.End)
	if err != nil {
		return payroll.LateDeductionResponse{}, fmt.Errorf("failed to list late check-ins: %w", err)
	}

	// Only the late facts matter here; absences are priced by their own endpoint.
	facts := summary.Summary{EmployeeID: employeeID, Start: q.Start, End: q.End}
	details := make([]attendance.LateCheckinResponse, 0, len(lates))
	for _, l := range lates {
		facts.TotalLateCheckIns++
		facts.TotalLateMinutes += l.LateByMinutes
		details = append(details, attendance.NewLateCheckinResponse(l, s.loc))
	}

	daily := payroll.DailySalary(salary.BaseSalary, q.MonthNumber(), q.YearNumber())
	d := s.engine.ComputeDeductions(daily, facts, salary)

	return payroll.LateDeductionResponse{
		EmployeeID:         employeeID,
		Month:              int(q.MonthNumber()),
		Year:               q.YearNumber(),
		TotalLateCheckIns:  facts.TotalLateCheckIns,
		TotalLateMinutes:   facts.TotalLateMinutes,
		LatePolicy:         d.LatePolicy,
		DailySalary:        d.DailySalary.Round(2),
		TotalDeduction:     d.LateDeduction.Round(2),
		FinalSalary:        d.FinalSalary.Round(2),
		LateCheckInDetails: details,
	}, nil
}

func (s *PayrollServiceImpl) GetOverview(ctx context.Context, session auth.Session, q summary.MonthQuery) (payroll.OverviewResponse, error) {
	if err := q.Validate(); err != nil {
		return payroll.OverviewResponse{}, err
	}
	employeeID, err := session.ResolveEmployee(q.EmployeeID)
	if err != nil {
		return payroll.OverviewResponse{}, err
	}
	salary, err := s.salaryFor(ctx, employeeID)
	if err != nil {
		return payroll.OverviewResponse{}, err
	}
	result, err := s.summaries.Summarize(ctx, employeeID, q.Start, q.End)
	if err != nil {
		return payroll.OverviewResponse{}, err
	}

	daily := payroll.DailySalary(salary.BaseSalary, q.MonthNumber(), q.YearNumber())
	d := s.engine.ComputeDeductions(daily, result, salary)
	if d.Clamped {
		slog.Warn("deductions exceed salary, final salary clamped to zero",
			"employee_id", employeeID, "month", int(q.MonthNumber()), "year", q.YearNumber())
	}
	return payroll.NewOverviewResponse(result, salary, d), nil
}
