package payroll

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UpsertSalaryRequest struct {
	EmployeeID string          `json:"employeeId"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Bonuses    decimal.Decimal `json:"bonuses"`
	Deductions decimal.Decimal `json:"deductions"`
}

func (r *UpsertSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employeeId", Message: "employeeId is required"})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employeeId", Message: "employeeId must be a valid UUID"})
	}
	errs = append(errs, nonNegative("baseSalary", &r.BaseSalary)...)
	errs = append(errs, nonNegative("bonuses", &r.Bonuses)...)
	errs = append(errs, nonNegative("deductions", &r.Deductions)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateSalaryRequest struct {
	BaseSalary *decimal.Decimal `json:"baseSalary,omitempty"`
	Bonuses    *decimal.Decimal `json:"bonuses,omitempty"`
	Deductions *decimal.Decimal `json:"deductions,omitempty"`
}

func (r *UpdateSalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BaseSalary == nil && r.Bonuses == nil && r.Deductions == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one of baseSalary, bonuses, deductions is required"})
	}
	errs = append(errs, nonNegative("baseSalary", r.BaseSalary)...)
	errs = append(errs, nonNegative("bonuses", r.Bonuses)...)
	errs = append(errs, nonNegative("deductions", r.Deductions)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply copies the provided amounts onto s and recomputes its total.
func (r UpdateSalaryRequest) Apply(s *SalaryRecord) {
	if r.BaseSalary != nil {
		s.BaseSalary = *r.BaseSalary
	}
	if r.Bonuses != nil {
		s.Bonuses = *r.Bonuses
	}
	if r.Deductions != nil {
		s.Deductions = *r.Deductions
	}
	s.Recalculate()
}

func nonNegative(field string, d *decimal.Decimal) validator.ValidationErrors {
	if d != nil && d.IsNegative() {
		return validator.Single(field, field+" must not be negative")
	}
	return nil
}

type SalaryResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employeeId"`
	EmployeeName *string         `json:"employeeName,omitempty"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	Bonuses      decimal.Decimal `json:"bonuses"`
	Deductions   decimal.Decimal `json:"deductions"`
	TotalSalary  decimal.Decimal `json:"totalSalary"`
}

func NewSalaryResponse(s SalaryRecord) SalaryResponse {
	return SalaryResponse{
		ID:           s.ID,
		EmployeeID:   s.EmployeeID,
		EmployeeName: s.EmployeeName,
		BaseSalary:   money(s.BaseSalary),
		Bonuses:      money(s.Bonuses),
		Deductions:   money(s.Deductions),
		TotalSalary:  money(s.TotalSalary),
	}
}

type AbsentDeductionResponse struct {
	EmployeeID     string                       `json:"employeeId"`
	StartDate      string                       `json:"startDate"`
	EndDate        string                       `json:"endDate"`
	TotalAbsents   int                          `json:"totalAbsents"`
	DailySalary    decimal.Decimal              `json:"dailySalary"`
	TotalDeduction decimal.Decimal              `json:"totalDeduction"`
	AbsentDates    []summary.AbsentDateResponse `json:"absentDates"`
}

type HalfDayDeductionResponse struct {
	EmployeeID     string                    `json:"employeeId"`
	StartDate      string                    `json:"startDate"`
	EndDate        string                    `json:"endDate"`
	TotalHalfDays  int                       `json:"totalHalfDays"`
	DailySalary    decimal.Decimal           `json:"dailySalary"`
	TotalDeduction decimal.Decimal           `json:"totalDeduction"`
	HalfDayDetails []summary.HalfDayResponse `json:"halfDayDetails"`
}

type LateDeductionResponse struct {
	EmployeeID         string                           `json:"employeeId"`
	Month              int                              `json:"month"`
	Year               int                              `json:"year"`
	TotalLateCheckIns  int                              `json:"totalLateCheckIns"`
	TotalLateMinutes   int                              `json:"totalLateMinutes"`
	LatePolicy         string                           `json:"latePolicy"`
	DailySalary        decimal.Decimal                  `json:"dailySalary"`
	TotalDeduction     decimal.Decimal                  `json:"totalDeduction"`
	FinalSalary        decimal.Decimal                  `json:"finalSalary"`
	LateCheckInDetails []attendance.LateCheckinResponse `json:"lateCheckInDetails"`
}

type OverviewResponse struct {
	EmployeeID        string          `json:"employeeId"`
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	TotalPresent      int             `json:"totalPresent"`
	TotalAbsents      int             `json:"totalAbsents"`
	TotalHalfDays     int             `json:"totalHalfDays"`
	TotalLateCheckIns int             `json:"totalLateCheckIns"`
	BaseSalary        decimal.Decimal `json:"baseSalary"`
	Bonuses           decimal.Decimal `json:"bonuses"`
	ManualDeductions  decimal.Decimal `json:"manualDeductions"`
	DailySalary       decimal.Decimal `json:"dailySalary"`
	AbsentDeduction   decimal.Decimal `json:"absentDeduction"`
	HalfDayDeduction  decimal.Decimal `json:"halfDayDeduction"`
	LateDeduction     decimal.Decimal `json:"lateDeduction"`
	TotalDeduction    decimal.Decimal `json:"totalDeduction"`
	FinalSalary       decimal.Decimal `json:"finalSalary"`
	LatePolicy        string          `json:"latePolicy"`
	Clamped           bool            `json:"clamped"`
}

func NewOverviewResponse(s summary.Summary, salary SalaryRecord, d Deductions) OverviewResponse {
	return OverviewResponse{
		EmployeeID:        s.EmployeeID,
		Month:             int(s.Start.Month()),
		Year:              s.Start.Year(),
		TotalPresent:      s.TotalPresent,
		TotalAbsents:      s.TotalAbsents,
		TotalHalfDays:     s.TotalHalfDays,
		TotalLateCheckIns: s.TotalLateCheckIns,
		BaseSalary:        money(salary.BaseSalary),
		Bonuses:           money(salary.Bonuses),
		ManualDeductions:  money(salary.Deductions),
		DailySalary:       money(d.DailySalary),
		AbsentDeduction:   money(d.AbsentDeduction),
		HalfDayDeduction:  money(d.HalfDayDeduction),
		LateDeduction:     money(d.LateDeduction),
		TotalDeduction:    money(d.TotalDeduction),
		FinalSalary:       money(d.FinalSalary),
		LatePolicy:        d.LatePolicy,
		Clamped:           d.Clamped,
	}
}

// money rounds to cents for the wire.
func money(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
