package payroll

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
)

// SalaryRecord - monthly salary configuration of one employee
type SalaryRecord struct {
	ID          string
	EmployeeID  string
	BaseSalary  decimal.Decimal
	Bonuses     decimal.Decimal
	Deductions  decimal.Decimal // entered manually by HR
	TotalSalary decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined fields
	EmployeeName *string
}

// Recalculate refreshes TotalSalary after any amount changes.
func (s *SalaryRecord) Recalculate() {
	s.TotalSalary = s.BaseSalary.Add(s.Bonuses).Sub(s.Deductions)
}

// DailySalary is base salary spread over the days of the given month.
func DailySalary(base decimal.Decimal, month time.Month, year int) decimal.Decimal {
	return base.Div(decimal.NewFromInt(int64(timeutil.DaysInMonth(month, year))))
}
