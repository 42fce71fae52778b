package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type RecessIntervalResponse struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// RecordResponse is the dashboard view of one day. Durations are sent both
// in milliseconds and as "Xh Ym".
type RecordResponse struct {
	ID                    string                   `json:"id,omitempty"`
	EmployeeID            string                   `json:"employeeId"`
	Date                  string                   `json:"date"`
	Status                Status                   `json:"status"`
	StatusLabel           string                   `json:"statusLabel"`
	CheckInTime           *string                  `json:"checkInTime"`
	CheckOutTime          *string                  `json:"checkOutTime"`
	RecessIntervals       []RecessIntervalResponse `json:"recessIntervals"`
	TotalRecessDurationMs int64                    `json:"totalRecessDurationMs"`
	TotalRecessDuration   string                   `json:"totalRecessDuration"`
	TotalWorkingTimeMs    int64                    `json:"totalWorkingTimeMs"`
	TotalWorkingTime      string                   `json:"totalWorkingTime"`
	LiveWorkingTimeMs     int64                    `json:"liveWorkingTimeMs"`
	LiveWorkingTime       string                   `json:"liveWorkingTime"`
	LateCheckIn           bool                     `json:"lateCheckIn"`
	LateByMinutes         int                      `json:"lateByMinutes"`
	AllowedActions        []Action                 `json:"allowedActions"`
}

func NewRecordResponse(r *Record, now time.Time, loc *time.Location) RecordResponse {
	recess := r.TotalRecessDuration()
	total := r.TotalWorkingTime()
	live := r.LiveWorkingTime(now)

	intervals := make([]RecessIntervalResponse, 0, len(r.RecessIntervals))
	for _, iv := range r.RecessIntervals {
		intervals = append(intervals, RecessIntervalResponse{
			Start: iv.Start.In(loc).Format(time.RFC3339),
			End:   formatInstant(iv.End, loc),
		})
	}

	return RecordResponse{
		ID:                    r.ID,
		EmployeeID:            r.EmployeeID,
		Date:                  timeutil.DateKey(r.Date),
		Status:                r.Status(),
		StatusLabel:           r.Status().Label(),
		CheckInTime:           formatInstant(r.CheckInTime, loc),
		CheckOutTime:          formatInstant(r.CheckOutTime, loc),
		RecessIntervals:       intervals,
		TotalRecessDurationMs: recess.Milliseconds(),
		TotalRecessDuration:   timeutil.DurationString(recess),
		TotalWorkingTimeMs:    total.Milliseconds(),
		TotalWorkingTime:      timeutil.DurationString(total),
		LiveWorkingTimeMs:     live.Milliseconds(),
		LiveWorkingTime:       timeutil.DurationString(live),
		LateCheckIn:           r.LateCheckIn,
		LateByMinutes:         r.LateByMinutes,
		AllowedActions:        AllowedActions(r.Status()),
	}
}

type TransitionResponse struct {
	Action      Action         `json:"action"`
	Record      RecordResponse `json:"record"`
	LateCheckIn *string        `json:"lateCheckIn,omitempty"`
}

// LateNotice is the message shown after a late check-in.
func LateNotice(minutes int) *string {
	if minutes <= 0 {
		return nil
	}
	msg := fmt.Sprintf("You are late by %d minutes", minutes)
	return &msg
}

// MaxFilterDays bounds the late check-in report range.
const MaxFilterDays = 366

type LateCheckinFilter struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`

	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (f *LateCheckinFilter) Validate() error {
	var errs validator.ValidationErrors

	start, err := timeutil.ParseDateParam(f.StartDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "startDate", Message: err.Error()})
	}
	end, err := timeutil.ParseDateParam(f.EndDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: err.Error()})
	}
	if len(errs) == 0 && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: "endDate must not be before startDate"})
	} else if len(errs) == 0 && timeutil.DayCount(start, end) > MaxFilterDays {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: fmt.Sprintf("date range must not exceed %d days", MaxFilterDays)})
	}

	if len(errs) > 0 {
		return errs
	}
	f.Start, f.End = start, end
	return nil
}

type LateCheckinResponse struct {
	ID                    string `json:"id"`
	EmployeeID            string `json:"employeeId"`
	Date                  string `json:"date"`
	PredefinedCheckInTime string `json:"predefinedCheckInTime"`
	ActualCheckInTime     string `json:"actualCheckInTime"`
	LateByMinutes         int    `json:"lateByMinutes"`
}

type ListLateCheckinResponse struct {
	EmployeeID        string                `json:"employeeId"`
	TotalLateCheckIns int                   `json:"totalLateCheckIns"`
	TotalLateMinutes  int                   `json:"totalLateMinutes"`
	LateCheckins      []LateCheckinResponse `json:"lateCheckins"`
}

func NewLateCheckinResponse(l LateCheckin, loc *time.Location) LateCheckinResponse {
	return LateCheckinResponse{
		ID:                    l.ID,
		EmployeeID:            l.EmployeeID,
		Date:                  timeutil.DateKey(l.Date),
		PredefinedCheckInTime: l.PredefinedCheckInTime,
		ActualCheckInTime:     l.ActualCheckInTime.In(loc).Format(time.RFC3339),
		LateByMinutes:         l.LateByMinutes,
	}
}

func formatInstant(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

// StreamTokenResponse authorizes one live status stream.
type StreamTokenResponse struct {
	Token     string `json:"token"`
	Topic     string `json:"topic"`
	ExpiresIn int    `json:"expiresIn"`
}
