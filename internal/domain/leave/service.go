package leave

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

type LeaveService interface {
	Create(ctx context.Context, session auth.Session, req CreateLeaveRequest) (LeaveResponse, error)
	// ListForEmployee lists one employee's requests. An empty employeeID
	// means the caller's own.
	ListForEmployee(ctx context.Context, session auth.Session, employeeID string) ([]LeaveResponse, error)
	ListAll(ctx context.Context, filter ListFilter) ([]LeaveResponse, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (LeaveResponse, error)
	Delete(ctx context.Context, session auth.Session, id string) error
}
