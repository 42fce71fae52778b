package attendance

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

// AttendanceService defines business logic for the daily check-in cycle
type AttendanceService interface {
	// GetStatus returns today's record, or the implicit not-checked-in state
	GetStatus(ctx context.Context, session auth.Session) (RecordResponse, error)

	// Transition applies one action to today's record atomically
	Transition(ctx context.Context, session auth.Session, action Action) (TransitionResponse, error)

	// ListLateCheckins returns late arrivals of an employee in a date range
	ListLateCheckins(ctx context.Context, session auth.Session, filter LateCheckinFilter) (ListLateCheckinResponse, error)
}
