package summary

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// MaxRangeDays bounds a single summary request.
const MaxRangeDays = 366

// ValidateRange rejects reversed or oversized ranges.
func ValidateRange(start, end time.Time) error {
	if end.Before(start) {
		return validator.Single("endDate", "endDate must not be before startDate")
	}
	if timeutil.DayCount(start, end) > MaxRangeDays {
		return validator.Single("endDate", "date range must not exceed 366 days")
	}
	return nil
}

// Summarize classifies every day of [Start, End] and rolls the result up.
// It reads only its input, so equal inputs give equal summaries.
func Summarize(in Input) (Summary, error) {
	if err := ValidateRange(in.Start, in.End); err != nil {
		return Summary{}, err
	}
	threshold := in.Policy.HalfDayThreshold
	if threshold <= 0 {
		threshold = DefaultHalfDayThreshold
	}

	inRange := make([]attendance.Record, 0, len(in.Records))
	for _, r := range in.Records {
		if r.Date.Before(in.Start) || r.Date.After(in.End) {
			continue
		}
		inRange = append(inRange, r)
	}
	byDate := make(map[string]*attendance.Record, len(inRange))
	for i := range inRange {
		byDate[timeutil.DateKey(inRange[i].Date)] = &inRange[i]
	}

	s := Summary{
		EmployeeID:  in.EmployeeID,
		Start:       in.Start,
		End:         in.End,
		Records:     inRange,
		AbsentDates: []time.Time{},
		HalfDays:    []Day{},
	}

	for _, date := range timeutil.DaysBetween(in.Start, in.End) {
		day := classify(date, byDate[timeutil.DateKey(date)], in, threshold)
		s.Days = append(s.Days, day)

		switch day.Kind {
		case DayPresent:
			s.TotalPresent++
			s.TotalWorkingTime += day.WorkingTime
		case DayHalfDay:
			s.TotalHalfDays++
			s.TotalWorkingTime += day.WorkingTime
			s.HalfDays = append(s.HalfDays, day)
		case DayAbsent:
			s.TotalAbsents++
			s.AbsentDates = append(s.AbsentDates, date)
		case DayExcused:
			s.TotalExcused++
		}
	}

	for _, r := range inRange {
		s.TotalRecessTime += r.TotalRecessDuration()
		if r.LateCheckIn {
			s.TotalLateCheckIns++
			s.TotalLateMinutes += r.LateByMinutes
		}
	}

	return s, nil
}

func classify(date time.Time, rec *attendance.Record, in Input, threshold time.Duration) Day {
	day := Day{Date: date, Record: rec}

	switch {
	case date.After(in.Today):
		day.Kind = DayUpcoming
		return day
	case in.Holidays != nil && in.Holidays.IsHoliday(date):
		day.Kind, day.Reason = DayExcused, ExcusedHoliday
		day.HolidayName, _ = in.Holidays.Name(date)
		return day
	case in.JoinDate != nil && date.Before(*in.JoinDate):
		day.Kind, day.Reason = DayExcused, ExcusedBeforeJoin
		return day
	case rec == nil || rec.CheckInTime == nil:
		day.Kind = DayAbsent
		return day
	}

	if rec.CheckOutTime == nil {
		if date.Equal(in.Today) {
			day.Kind = DayPresent
			day.WorkingTime = rec.LiveWorkingTime(in.Now)
		} else {
			day.Kind = DayIncomplete
		}
		return day
	}

	day.WorkingTime = rec.TotalWorkingTime()
	if day.WorkingTime < threshold {
		day.Kind = DayHalfDay
	} else {
		day.Kind = DayPresent
	}
	return day
}
