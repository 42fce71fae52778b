package payroll

import "context"

type SalaryRepository interface {
	List(ctx context.Context) ([]SalaryRecord, error)
	GetByID(ctx context.Context, id string) (SalaryRecord, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (SalaryRecord, error)
	// Upsert creates or replaces the employee's single salary record.
	Upsert(ctx context.Context, salary SalaryRecord) (SalaryRecord, error)
	Update(ctx context.Context, salary SalaryRecord) (SalaryRecord, error)
}
