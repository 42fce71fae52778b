package attendance

import (
	"context"
	"time"
)

// AttendanceRepository persists daily records. State changes after check-in
// go through UpdateIfStatus so two concurrent requests cannot both succeed.
type AttendanceRepository interface {
	// Create inserts the day's first record. A second record for the same
	// employee and date fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, record Record) (Record, error)

	// GetByEmployeeAndDate returns nil, nil when the day has no record yet.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// UpdateIfStatus persists record only while the stored status still equals
	// expected; otherwise it returns ErrConcurrentTransition.
	UpdateIfStatus(ctx context.Context, record Record, expected Status) (Record, error)

	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]Record, error)
	ListByDate(ctx context.Context, date time.Time) ([]Record, error)

	CreateLateCheckin(ctx context.Context, late LateCheckin) (LateCheckin, error)
	ListLateCheckins(ctx context.Context, employeeID string, start, end time.Time) ([]LateCheckin, error)
}
