package summary

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

// DayKind is the classification of one calendar day for one employee.
type DayKind string

const (
	DayPresent    DayKind = "present"
	DayHalfDay    DayKind = "half_day"
	DayAbsent     DayKind = "absent"
	DayExcused    DayKind = "excused"
	DayIncomplete DayKind = "incomplete" // past day checked in but never checked out
	DayUpcoming   DayKind = "upcoming"
)

const (
	ExcusedHoliday    = "holiday"
	ExcusedBeforeJoin = "before_join"
)

type Day struct {
	Date        time.Time
	Kind        DayKind
	Reason      string
	HolidayName string
	Record      *attendance.Record
	WorkingTime time.Duration
}

// HolidayChecker is satisfied by holiday.Calendar.
type HolidayChecker interface {
	IsHoliday(date time.Time) bool
	Name(date time.Time) (string, bool)
}

type Policy struct {
	HalfDayThreshold time.Duration
}

// DefaultHalfDayThreshold is used when Policy leaves it unset.
const DefaultHalfDayThreshold = 4 * time.Hour

type Input struct {
	EmployeeID string
	Start      time.Time
	End        time.Time
	JoinDate   *time.Time
	Records    []attendance.Record
	Holidays   HolidayChecker
	Today      time.Time
	Now        time.Time
	Policy     Policy
}

type Summary struct {
	EmployeeID        string
	Start             time.Time
	End               time.Time
	Days              []Day
	Records           []attendance.Record
	TotalPresent      int
	TotalAbsents      int
	TotalHalfDays     int
	TotalExcused      int
	TotalLateCheckIns int
	TotalLateMinutes  int
	TotalWorkingTime  time.Duration
	TotalRecessTime   time.Duration
	AbsentDates       []time.Time
	HalfDays          []Day
}
