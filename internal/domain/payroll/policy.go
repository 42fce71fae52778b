package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// LateFacts are the lateness figures a policy may charge for.
type LateFacts struct {
	Incidents    int
	TotalMinutes int
}

// LatePolicy turns lateness into a deduction amount.
type LatePolicy interface {
	Name() string
	Deduction(facts LateFacts, dailySalary decimal.Decimal) decimal.Decimal
}

const (
	PolicyNone      = "none"
	PolicyFlat      = "flat"
	PolicyAllowance = "allowance"
	PolicyPerMinute = "per_minute"
)

type NoLatePolicy struct{}

func (NoLatePolicy) Name() string { return PolicyNone }

func (NoLatePolicy) Deduction(LateFacts, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}

// FlatLatePolicy charges the same amount for every late check-in.
type FlatLatePolicy struct {
	PerIncident decimal.Decimal
}

func (FlatLatePolicy) Name() string { return PolicyFlat }

func (p FlatLatePolicy) Deduction(f LateFacts, _ decimal.Decimal) decimal.Decimal {
	return p.PerIncident.Mul(decimal.NewFromInt(int64(f.Incidents)))
}

// AllowanceLatePolicy forgives the first FreeIncidents late check-ins and
// charges each further one. The charge is PerIncident when set, otherwise
// DailyFraction of a daily salary.
type AllowanceLatePolicy struct {
	FreeIncidents int
	PerIncident   decimal.Decimal
	DailyFraction decimal.Decimal
}

func (AllowanceLatePolicy) Name() string { return PolicyAllowance }

func (p AllowanceLatePolicy) Deduction(f LateFacts, dailySalary decimal.Decimal) decimal.Decimal {
	charged := f.Incidents - p.FreeIncidents
	if charged <= 0 {
		return decimal.Zero
	}
	per := p.PerIncident
	if !per.IsPositive() {
		per = dailySalary.Mul(p.DailyFraction)
	}
	return per.Mul(decimal.NewFromInt(int64(charged)))
}

// PerMinuteLatePolicy charges a rate for every late minute.
type PerMinuteLatePolicy struct {
	Rate decimal.Decimal
}

func (PerMinuteLatePolicy) Name() string { return PolicyPerMinute }

func (p PerMinuteLatePolicy) Deduction(f LateFacts, _ decimal.Decimal) decimal.Decimal {
	return p.Rate.Mul(decimal.NewFromInt(int64(f.TotalMinutes)))
}

// LatePolicyConfig mirrors the POLICY_LATE_* settings.
type LatePolicyConfig struct {
	Name          string
	FreeIncidents int
	Amount        string
	DailyFraction string
	PerMinuteRate string
}

func NewLatePolicy(cfg LatePolicyConfig) (LatePolicy, error) {
	amount, err := parseAmount("amount", cfg.Amount)
	if err != nil {
		return nil, err
	}
	fraction, err := parseAmount("daily fraction", cfg.DailyFraction)
	if err != nil {
		return nil, err
	}
	rate, err := parseAmount("per-minute rate", cfg.PerMinuteRate)
	if err != nil {
		return nil, err
	}

	switch cfg.Name {
	case PolicyNone:
		return NoLatePolicy{}, nil
	case PolicyFlat:
		return FlatLatePolicy{PerIncident: amount}, nil
	case PolicyAllowance, "":
		return AllowanceLatePolicy{FreeIncidents: cfg.FreeIncidents, PerIncident: amount, DailyFraction: fraction}, nil
	case PolicyPerMinute:
		return PerMinuteLatePolicy{Rate: rate}, nil
	}
	return nil, fmt.Errorf("unknown late deduction policy %q", cfg.Name)
}

func parseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, ok := validator.IsNonNegativeAmount(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("late policy %s must be a non-negative number, got %q", name, s)
	}
	return d, nil
}
