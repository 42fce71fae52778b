package leave

import "context"

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListAll(ctx context.Context, status *Status) ([]LeaveRequest, error)
	// UpdateStatusIfPending moves a pending request to status exactly once;
	// any other current status yields ErrLeaveRequestAlreadyProcessed.
	UpdateStatusIfPending(ctx context.Context, id string, status Status) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error
}
