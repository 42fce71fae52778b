package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryRepository struct {
	db *database.DB
}

func NewSalaryRepository(db *database.DB) payroll.SalaryRepository {
	return &salaryRepository{db: db}
}

const salarySelect = `
	SELECT s.id, s.employee_id, s.base_salary, s.bonuses, s.deductions, s.total_salary,
		   s.created_at, s.updated_at, e.full_name
	FROM salaries s
	JOIN employees e ON e.id = s.employee_id`

func scanSalary(row pgx.Row) (payroll.SalaryRecord, error) {
	var s payroll.SalaryRecord
	err := row.Scan(
		&s.ID, &s.EmployeeID, &s.BaseSalary, &s.Bonuses, &s.Deductions, &s.TotalSalary,
		&s.CreatedAt, &s.UpdatedAt, &s.EmployeeName,
	)
	return s, err
}

func (r *salaryRepository) getOne(ctx context.Context, where string, arg string) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	s, err := scanSalary(q.QueryRow(ctx, salarySelect+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return s, nil
}

// List implements payroll.SalaryRepository.
func (r *salaryRepository) List(ctx context.Context) ([]payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, salarySelect+` ORDER BY e.full_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list salaries: %w", err)
	}
	defer rows.Close()

	var salaries []payroll.SalaryRecord
	for rows.Next() {
		s, err := scanSalary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", err)
		}
		salaries = append(salaries, s)
	}
	return salaries, rows.Err()
}

// GetByID implements payroll.SalaryRepository.
func (r *salaryRepository) GetByID(ctx context.Context, id string) (payroll.SalaryRecord, error) {
	return r.getOne(ctx, "s.id = $1", id)
}

// GetByEmployeeID implements payroll.SalaryRepository.
func (r *salaryRepository) GetByEmployeeID(ctx context.Context, employeeID string) (payroll.SalaryRecord, error) {
	return r.getOne(ctx, "s.employee_id = $1", employeeID)
}

// Upsert implements payroll.SalaryRepository. An existing record keeps its ID.
func (r *salaryRepository) Upsert(ctx context.Context, salary payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salaries (id, employee_id, base_salary, bonuses, deductions, total_salary)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id) DO UPDATE
		SET base_salary = EXCLUDED.base_salary,
			bonuses = EXCLUDED.bonuses,
			deductions = EXCLUDED.deductions,
			total_salary = EXCLUDED.total_salary,
			updated_at = NOW()
		RETURNING id`

	var id string
	err := q.QueryRow(ctx, query,
		salary.ID,
		salary.EmployeeID,
		salary.BaseSalary,
		salary.Bonuses,
		salary.Deductions,
		salary.TotalSalary,
	).Scan(&id)
	if err != nil {
		return payroll.SalaryRecord{}, fmt.Errorf("failed to upsert salary: %w", err)
	}
	return r.GetByID(ctx, id)
}

// Update implements payroll.SalaryRepository.
func (r *salaryRepository) Update(ctx context.Context, salary payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salaries
		SET base_salary = $1, bonuses = $2, deductions = $3, total_salary = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING id`

	var id string
	err := q.QueryRow(ctx, query,
		salary.BaseSalary,
		salary.Bonuses,
		salary.Deductions,
		salary.TotalSalary,
		salary.ID,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
		}
		return payroll.SalaryRecord{}, fmt.Errorf("failed to update salary: %w", err)
	}
	return r.GetByID(ctx, id)
}
