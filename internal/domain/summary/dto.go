package summary

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// MonthQuery selects one calendar month, optionally for a named employee.
type MonthQuery struct {
	EmployeeID string
	Month      string
	Year       string

	Start time.Time
	End   time.Time
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors

	month, err := strconv.Atoi(q.Month)
	if err != nil || month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number from 1 to 12"})
	}
	year, err := strconv.Atoi(q.Year)
	if err != nil || year < 1970 || year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a four digit year"})
	}
	if len(errs) > 0 {
		return errs
	}

	q.Start, q.End = timeutil.MonthRange(time.Month(month), year)
	return nil
}

func (q MonthQuery) MonthNumber() time.Month { return q.Start.Month() }
func (q MonthQuery) YearNumber() int         { return q.Start.Year() }

// RangeQuery selects an inclusive date range.
type RangeQuery struct {
	EmployeeID string
	StartDate  string
	EndDate    string

	Start time.Time
	End   time.Time
}

func (q *RangeQuery) Validate() error {
	var errs validator.ValidationErrors

	start, err := timeutil.ParseDateParam(q.StartDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "startDate", Message: err.Error()})
	}
	end, err := timeutil.ParseDateParam(q.EndDate)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "endDate", Message: err.Error()})
	}
	if len(errs) > 0 {
		return errs
	}
	if err := ValidateRange(start, end); err != nil {
		return err
	}

	q.Start, q.End = start, end
	return nil
}

type DateQuery struct {
	Date string

	Parsed time.Time
}

func (q *DateQuery) Validate() error {
	d, err := timeutil.ParseDateParam(q.Date)
	if err != nil {
		return validator.Single("date", err.Error())
	}
	q.Parsed = d
	return nil
}

type AbsentDateResponse struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

func NewAbsentDateResponses(dates []time.Time) []AbsentDateResponse {
	out := make([]AbsentDateResponse, 0, len(dates))
	for _, d := range dates {
		out = append(out, AbsentDateResponse{Date: timeutil.DateKey(d), Label: timeutil.DateLabel(d)})
	}
	return out
}

type HalfDayResponse struct {
	Date          string  `json:"date"`
	Label         string  `json:"label"`
	CheckInTime   *string `json:"checkInTime"`
	CheckOutTime  *string `json:"checkOutTime"`
	WorkingTimeMs int64   `json:"workingTimeMs"`
	WorkingTime   string  `json:"workingTime"`
}

func NewHalfDayResponses(days []Day, loc *time.Location) []HalfDayResponse {
	out := make([]HalfDayResponse, 0, len(days))
	for _, d := range days {
		row := HalfDayResponse{
			Date:          timeutil.DateKey(d.Date),
			Label:         timeutil.DateLabel(d.Date),
			WorkingTimeMs: d.WorkingTime.Milliseconds(),
			WorkingTime:   timeutil.DurationString(d.WorkingTime),
		}
		if d.Record != nil {
			rr := attendance.NewRecordResponse(d.Record, d.Date, loc)
			row.CheckInTime, row.CheckOutTime = rr.CheckInTime, rr.CheckOutTime
		}
		out = append(out, row)
	}
	return out
}

type DayResponse struct {
	Date          string  `json:"date"`
	Kind          DayKind `json:"kind"`
	Reason        string  `json:"reason,omitempty"`
	HolidayName   string  `json:"holidayName,omitempty"`
	WorkingTimeMs int64   `json:"workingTimeMs"`
	WorkingTime   string  `json:"workingTime"`
}

type SummaryResponse struct {
	EmployeeID         string                      `json:"employeeId"`
	StartDate          string                      `json:"startDate"`
	EndDate            string                      `json:"endDate"`
	Records            []attendance.RecordResponse `json:"records"`
	Days               []DayResponse               `json:"days"`
	TotalPresent       int                         `json:"totalPresent"`
	TotalAbsents       int                         `json:"totalAbsents"`
	TotalHalfDays      int                         `json:"totalHalfDays"`
	TotalExcused       int                         `json:"totalExcused"`
	TotalLateCheckIns  int                         `json:"totalLateCheckIns"`
	TotalWorkingTimeMs int64                       `json:"totalWorkingTimeMs"`
	TotalWorkingTime   string                      `json:"totalWorkingTime"`
	TotalRecessTimeMs  int64                       `json:"totalRecessTimeMs"`
	TotalRecessTime    string                      `json:"totalRecessTime"`
	AbsentDates        []AbsentDateResponse        `json:"absentDates"`
}

func NewSummaryResponse(s Summary, now time.Time, loc *time.Location) SummaryResponse {
	records := make([]attendance.RecordResponse, 0, len(s.Records))
	for i := range s.Records {
		records = append(records, attendance.NewRecordResponse(&s.Records[i], now, loc))
	}
	days := make([]DayResponse, 0, len(s.Days))
	for _, d := range s.Days {
		days = append(days, DayResponse{
			Date:          timeutil.DateKey(d.Date),
			Kind:          d.Kind,
			Reason:        d.Reason,
			HolidayName:   d.HolidayName,
			WorkingTimeMs: d.WorkingTime.Milliseconds(),
			WorkingTime:   timeutil.DurationString(d.WorkingTime),
		})
	}

	return SummaryResponse{
		EmployeeID:         s.EmployeeID,
		StartDate:          timeutil.DateKey(s.Start),
		EndDate:            timeutil.DateKey(s.End),
		Records:            records,
		Days:               days,
		TotalPresent:       s.TotalPresent,
		TotalAbsents:       s.TotalAbsents,
		TotalHalfDays:      s.TotalHalfDays,
		TotalExcused:       s.TotalExcused,
		TotalLateCheckIns:  s.TotalLateCheckIns,
		TotalWorkingTimeMs: s.TotalWorkingTime.Milliseconds(),
		TotalWorkingTime:   timeutil.DurationString(s.TotalWorkingTime),
		TotalRecessTimeMs:  s.TotalRecessTime.Milliseconds(),
		TotalRecessTime:    timeutil.DurationString(s.TotalRecessTime),
		AbsentDates:        NewAbsentDateResponses(s.AbsentDates),
	}
}

// DailyRow is one employee's line in the admin day view.
type DailyRow struct {
	EmployeeID   string                     `json:"employeeId"`
	EmployeeName string                     `json:"employeeName"`
	Kind         DayKind                    `json:"kind"`
	Reason       string                     `json:"reason,omitempty"`
	HolidayName  string                     `json:"holidayName,omitempty"`
	Record       *attendance.RecordResponse `json:"record"`
}

type DailyReportResponse struct {
	Date         string     `json:"date"`
	TotalPresent int        `json:"totalPresent"`
	TotalAbsent  int        `json:"totalAbsent"`
	Rows         []DailyRow `json:"rows"`
}

type AbsenteeRow struct {
	EmployeeID   string               `json:"employeeId"`
	EmployeeName string               `json:"employeeName"`
	TotalAbsents int                  `json:"totalAbsents"`
	AbsentDates  []AbsentDateResponse `json:"absentDates"`
}

type AbsenteeListResponse struct {
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Absentees []AbsenteeRow `json:"absentees"`
}

type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}
