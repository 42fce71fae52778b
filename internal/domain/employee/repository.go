package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	// SearchByName matches a case-insensitive substring of the full name.
	SearchByName(ctx context.Context, name string) ([]Employee, error)
	Create(ctx context.Context, e Employee) error
	Update(ctx context.Context, e Employee) (Employee, error)
}
