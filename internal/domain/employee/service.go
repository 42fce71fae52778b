package employee

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

type EmployeeService interface {
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	FindEmployees(ctx context.Context, q FindQuery) ([]EmployeeResponse, error)
	GetMyProfile(ctx context.Context, session auth.Session) (EmployeeResponse, error)
	UpdateMyProfile(ctx context.Context, session auth.Session, req UpdateProfileRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, id string, req AdminUpdateRequest) (EmployeeResponse, error)
	GetAdminProfile(ctx context.Context, session auth.Session) (AdminProfileResponse, error)
	UpdateAdminProfile(ctx context.Context, session auth.Session, req UpdateAdminProfileRequest) (AdminProfileResponse, error)
}
