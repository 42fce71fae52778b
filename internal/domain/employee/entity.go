package employee

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
)

type Employee struct {
	ID                string
	UserID            *string
	FullName          string
	Email             string
	Position          *string
	PhoneNumber       *string
	Address           *string
	DateOfBirth       *time.Time
	JoinDate          time.Time
	PredefinedCheckIn timeutil.TimeOfDay
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HasJoinedBy reports whether date falls on or after the join date.
func (e Employee) HasJoinedBy(date time.Time) bool {
	return !date.Before(e.JoinDate)
}
