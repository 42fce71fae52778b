package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
)

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	user.UserRepository
}

func NewEmployeeService(employeeRepository employee.EmployeeRepository, userRepository user.UserRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepository,
		UserRepository:     userRepository,
	}
}

func toResponses(employees []employee.Employee) []employee.EmployeeResponse {
	out := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		out = append(out, employee.NewEmployeeResponse(emp))
	}
	return out
}

// ListEmployees implements employee.EmployeeService.
func (e *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := e.EmployeeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return toResponses(employees), nil
}

// GetEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := e.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

// FindEmployees implements employee.EmployeeService. A lookup by id that
// misses is a 404; a name search that misses is an empty list.
func (e *EmployeeServiceImpl) FindEmployees(ctx context.Context, q employee.FindQuery) ([]employee.EmployeeResponse, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	if q.ID != "" {
		emp, err := e.EmployeeRepository.GetByID(ctx, q.ID)
		if err != nil {
			return nil, err
		}
		return []employee.EmployeeResponse{employee.NewEmployeeResponse(emp)}, nil
	}

	employees, err := e.EmployeeRepository.SearchByName(ctx, q.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to search employees: %w", err)
	}
	return toResponses(employees), nil
}

// GetMyProfile implements employee.EmployeeService.
func (e *EmployeeServiceImpl) GetMyProfile(ctx context.Context, session auth.Session) (employee.EmployeeResponse, error) {
	emp, err := e.ownEmployee(ctx, session)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(emp), nil
}

func (e *EmployeeServiceImpl) ownEmployee(ctx context.Context, session auth.Session) (employee.Employee, error) {
	if session.EmployeeID == "" {
		return employee.Employee{}, attendance.ErrEmployeeProfileMissing
	}
	emp, err := e.EmployeeRepository.GetByID(ctx, session.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, attendance.ErrEmployeeProfileMissing
		}
		return employee.Employee{}, err
	}
	return emp, nil
}

// UpdateMyProfile implements employee.EmployeeService.
func (e *EmployeeServiceImpl) UpdateMyProfile(ctx context.Context, session auth.Session, req employee.UpdateProfileRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := e.ownEmployee(ctx, session)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.ApplyTo(&emp)

	updated, err := e.EmployeeRepository.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee updated own profile", "employee_id", emp.ID)
	return employee.NewEmployeeResponse(updated), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (e *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, id string, req employee.AdminUpdateRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emp, err := e.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	req.ApplyTo(&emp)

	updated, err := e.EmployeeRepository.Update(ctx, emp)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee updated by admin", "employee_id", emp.ID)
	return employee.NewEmployeeResponse(updated), nil
}

// GetAdminProfile implements employee.EmployeeService.
func (e *EmployeeServiceImpl) GetAdminProfile(ctx context.Context, session auth.Session) (employee.AdminProfileResponse, error) {
	u, err := e.UserRepository.GetByID(ctx, session.UserID)
	if err != nil {
		return employee.AdminProfileResponse{}, err
	}
	return employee.NewAdminProfileResponse(u), nil
}

// UpdateAdminProfile implements employee.EmployeeService.
func (e *EmployeeServiceImpl) UpdateAdminProfile(ctx context.Context, session auth.Session, req employee.UpdateAdminProfileRequest) (employee.AdminProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.AdminProfileResponse{}, err
	}

	u, err := e.UserRepository.GetByID(ctx, session.UserID)
	if err != nil {
		return employee.AdminProfileResponse{}, err
	}
	req.ApplyTo(&u)

	updated, err := e.UserRepository.UpdateProfile(ctx, u)
	if err != nil {
		return employee.AdminProfileResponse{}, err
	}

	slog.Info("admin profile updated", "user_id", u.ID)
	return employee.NewAdminProfileResponse(updated), nil
}
