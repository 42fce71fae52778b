package payroll

import (
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// Deductions is the full payroll computation for one employee and period.
type Deductions struct {
	DailySalary      decimal.Decimal
	AbsentDeduction  decimal.Decimal
	HalfDayDeduction decimal.Decimal
	LateDeduction    decimal.Decimal
	TotalDeduction   decimal.Decimal
	GrossSalary      decimal.Decimal
	FinalSalary      decimal.Decimal
	LatePolicy       string
	Clamped          bool
}

// Engine computes deductions with a configured late policy.
type Engine struct {
	LatePolicy LatePolicy
}

func NewEngine(policy LatePolicy) Engine {
	if policy == nil {
		policy = NoLatePolicy{}
	}
	return Engine{LatePolicy: policy}
}

// ComputeDeductions applies
//
//	absent   = totalAbsents * dailySalary
//	halfDay  = totalHalfDays * dailySalary / 2
//	late     = LatePolicy(incidents, minutes)
//	final    = base + bonuses - manual deductions - (absent + halfDay + late)
//
// with final clamped at zero.
func (e Engine) ComputeDeductions(dailySalary decimal.Decimal, s summary.Summary, salary SalaryRecord) Deductions {
	if dailySalary.IsNegative() {
		dailySalary = decimal.Zero
	}
	policy := e.LatePolicy
	if policy == nil {
		policy = NoLatePolicy{}
	}

	facts := LateFacts{Incidents: s.TotalLateCheckIns, TotalMinutes: s.TotalLateMinutes}

	d := Deductions{
		DailySalary:      dailySalary,
		AbsentDeduction:  dailySalary.Mul(decimal.NewFromInt(int64(s.TotalAbsents))),
		HalfDayDeduction: dailySalary.Mul(half).Mul(decimal.NewFromInt(int64(s.TotalHalfDays))),
		LateDeduction:    policy.Deduction(facts, dailySalary),
		LatePolicy:       policy.Name(),
	}
	if d.LateDeduction.IsNegative() {
		d.LateDeduction = decimal.Zero
	}
	d.TotalDeduction = d.AbsentDeduction.Add(d.HalfDayDeduction).Add(d.LateDeduction)

	d.GrossSalary = salary.BaseSalary.Add(salary.Bonuses).Sub(salary.Deductions)
	d.FinalSalary = d.GrossSalary.Sub(d.TotalDeduction)
	if d.FinalSalary.IsNegative() {
		d.FinalSalary = decimal.Zero
		d.Clamped = true
	}
	return d
}
