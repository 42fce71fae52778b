package payroll

import "errors"

var (
	ErrSalaryNotFound       = errors.New("salary record not found")
	ErrEmployeeHasNoSalary  = errors.New("employee has no salary configured")
	ErrSalaryEmployeeExists = errors.New("salary record already exists for this employee")
)
