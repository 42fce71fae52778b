package leave

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const (
	eventLeaveCreated = "leave-created"
	eventLeaveUpdated = "leave-updated"
)

type Notifier interface {
	PublishToMany(topics []string, event sse.Event)
}

type LeaveServiceImpl struct {
	leaveRepo    leave.LeaveRequestRepository
	employeeRepo employee.EmployeeRepository
	notifier     Notifier
}

func NewLeaveService(leaveRepo leave.LeaveRequestRepository, employeeRepo employee.EmployeeRepository, notifier Notifier) leave.LeaveService {
	return &LeaveServiceImpl{
		leaveRepo:    leaveRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
	}
}

// Create implements leave.LeaveService.
func (l *LeaveServiceImpl) Create(ctx context.Context, session auth.Session, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	employeeID, err := session.ResolveEmployee("")
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	emp, err := l.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	created, err := l.leaveRepo.Create(ctx, leave.LeaveRequest{
		ID:         uuid.Must(uuid.NewV7()).String(),
		EmployeeID: emp.ID,
		StartDate:  req.Start,
		EndDate:    req.End,
		Reason:     req.Reason,
		Status:     leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	if created.EmployeeName == nil {
		created.EmployeeName = &emp.FullName
	}

	resp := leave.NewLeaveResponse(created)
	l.notify([]string{sse.TopicAdmins}, eventLeaveCreated, resp)
	slog.Info("leave request created", "leave_id", created.ID, "employee_id", emp.ID)
	return resp, nil
}

// ListForEmployee implements leave.LeaveService.
func (l *LeaveServiceImpl) ListForEmployee(ctx context.Context, session auth.Session, requested string) ([]leave.LeaveResponse, error) {
	employeeID, err := session.ResolveEmployee(requested)
	if err != nil {
		return nil, err
	}
	if requested != "" {
		if _, err := l.employeeRepo.GetByID(ctx, employeeID); err != nil {
			return nil, err
		}
	}
	list, err := l.leaveRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(list), nil
}

// ListAll implements leave.LeaveService.
func (l *LeaveServiceImpl) ListAll(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var status *leave.Status
	if filter.Status != "" {
		st := leave.Status(filter.Status)
		status = &st
	}
	list, err := l.leaveRepo.ListAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return toResponses(list), nil
}

// UpdateStatus implements leave.LeaveService. Only a pending request moves,
// and only once.
func (l *LeaveServiceImpl) UpdateStatus(ctx context.Context, id string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := l.leaveRepo.UpdateStatusIfPending(ctx, id, req.Status)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	resp := leave.NewLeaveResponse(updated)
	l.notify([]string{sse.TopicForEmployee(updated.EmployeeID), sse.TopicAdmins}, eventLeaveUpdated, resp)
	slog.Info("leave request processed", "leave_id", id, "status", string(req.Status))
	return resp, nil
}

// Delete implements leave.LeaveService. Owners and admins may delete in any state.
func (l *LeaveServiceImpl) Delete(ctx context.Context, session auth.Session, id string) error {
	existing, err := l.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !session.IsAdmin() && existing.EmployeeID != session.EmployeeID {
		return leave.ErrNotRequestOwner
	}
	return l.leaveRepo.Delete(ctx, id)
}

func (l *LeaveServiceImpl) notify(topics []string, event string, data leave.LeaveResponse) {
	if l.notifier == nil {
		return
	}
	l.notifier.PublishToMany(topics, sse.Event{Event: event, Data: data})
}

func toResponses(list []leave.LeaveRequest) []leave.LeaveResponse {
	out := make([]leave.LeaveResponse, 0, len(list))
	for _, lr := range list {
		out = append(out, leave.NewLeaveResponse(lr))
	}
	return out
}
