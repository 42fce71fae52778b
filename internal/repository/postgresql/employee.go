package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db             *database.DB
	defaultCheckIn timeutil.TimeOfDay
}

// NewEmployeeRepository returns a repository that falls back to
// defaultCheckIn when a stored predefined check-in cannot be parsed.
func NewEmployeeRepository(db *database.DB, defaultCheckIn timeutil.TimeOfDay) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db, defaultCheckIn: defaultCheckIn}
}

const employeeColumns = `id, user_id, full_name, email, position, phone_number, address, date_of_birth, join_date, predefined_check_in, created_at, updated_at`

func (r *employeeRepositoryImpl) scan(row pgx.Row) (employee.Employee, error) {
	var (
		e       employee.Employee
		checkIn string
	)
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.FullName,
		&e.Email,
		&e.Position,
		&e.PhoneNumber,
		&e.Address,
		&e.DateOfBirth,
		&e.JoinDate,
		&checkIn,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	if e.PredefinedCheckIn, err = timeutil.ParseTimeOfDay(checkIn); err != nil {
		e.PredefinedCheckIn = r.defaultCheckIn
	}
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := r.scan(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return e, nil
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY full_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return r.collect(rows)
}

// SearchByName implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SearchByName(ctx context.Context, name string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees
		WHERE lower(full_name) LIKE '%' || $1 || '%'
		ORDER BY full_name, id
	`
	rows, err := q.Query(ctx, query, escapeLike(strings.ToLower(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return r.collect(rows)
}

func (r *employeeRepositoryImpl) collect(rows pgx.Rows) ([]employee.Employee, error) {
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (id, user_id, full_name, email, position, phone_number, address, date_of_birth, join_date, predefined_check_in)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := q.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.FullName,
		e.Email,
		e.Position,
		e.PhoneNumber,
		e.Address,
		e.DateOfBirth,
		e.JoinDate,
		e.PredefinedCheckIn.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $2,
		    position = $3,
		    phone_number = $4,
		    address = $5,
		    date_of_birth = $6,
		    join_date = $7,
		    predefined_check_in = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	updated, err := r.scan(q.QueryRow(ctx, query,
		e.ID,
		e.FullName,
		e.Position,
		e.PhoneNumber,
		e.Address,
		e.DateOfBirth,
		e.JoinDate,
		e.PredefinedCheckIn.String(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return updated, nil
}
