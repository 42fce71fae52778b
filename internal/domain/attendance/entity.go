package attendance

import (
	"time"
)

type RecessInterval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

func (r RecessInterval) IsOpen() bool {
	return r.End == nil
}

// Record is one employee's attendance for one calendar day.
type Record struct {
	ID              string
	EmployeeID      string
	Date            time.Time
	CheckInTime     *time.Time
	CheckOutTime    *time.Time
	RecessIntervals []RecessInterval
	CurrentStatus   Status
	LateCheckIn     bool
	LateByMinutes   int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewRecord returns the implicit state of a day with no check-in.
func NewRecord(id, employeeID string, date time.Time) *Record {
	return &Record{
		ID:              id,
		EmployeeID:      employeeID,
		Date:            date,
		RecessIntervals: []RecessInterval{},
		CurrentStatus:   StatusNotCheckedIn,
	}
}

func (r *Record) Status() Status {
	if r == nil || r.CurrentStatus == "" {
		return StatusNotCheckedIn
	}
	return r.CurrentStatus
}

// TotalRecessDuration sums the closed recess intervals.
func (r *Record) TotalRecessDuration() time.Duration {
	var total time.Duration
	for _, iv := range r.RecessIntervals {
		if iv.End != nil {
			total += iv.End.Sub(iv.Start)
		}
	}
	return total
}

// TotalWorkingTime is zero until the day is checked out.
func (r *Record) TotalWorkingTime() time.Duration {
	if r.CheckInTime == nil || r.CheckOutTime == nil {
		return 0
	}
	return clampZero(r.CheckOutTime.Sub(*r.CheckInTime) - r.TotalRecessDuration())
}

// LiveWorkingTime is the working time so far. It stops advancing while the
// employee is in recess and equals TotalWorkingTime once checked out.
func (r *Record) LiveWorkingTime(now time.Time) time.Duration {
	switch r.Status() {
	case StatusCheckedOut:
		return r.TotalWorkingTime()
	case StatusInRecess:
		if open := r.openRecess(); open != nil {
			return clampZero(open.Start.Sub(*r.CheckInTime) - r.TotalRecessDuration())
		}
	case StatusCheckedIn:
		return clampZero(now.Sub(*r.CheckInTime) - r.TotalRecessDuration())
	}
	return 0
}

func (r *Record) openRecess() *RecessInterval {
	if n := len(r.RecessIntervals); n > 0 && r.RecessIntervals[n-1].IsOpen() {
		return &r.RecessIntervals[n-1]
	}
	return nil
}

// lastEventTime is the most recent timestamp recorded on the day.
func (r *Record) lastEventTime() *time.Time {
	last := r.CheckInTime
	if n := len(r.RecessIntervals); n > 0 {
		iv := r.RecessIntervals[n-1]
		last = &iv.Start
		if iv.End != nil {
			last = iv.End
		}
	}
	return last
}

func clampZero(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}

// LateCheckin is written once, at check-in, when the employee arrives after
// their predefined check-in time.
type LateCheckin struct {
	ID                    string
	EmployeeID            string
	Date                  time.Time
	PredefinedCheckInTime string
	ActualCheckInTime     time.Time
	LateByMinutes         int
	CreatedAt             time.Time
}
