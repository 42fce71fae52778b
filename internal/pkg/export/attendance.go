// Package export renders attendance data as spreadsheets.
package export

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/xuri/excelize/v2"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	attendanceSheet = "Attendance"
)

var attendanceHeaders = []string{"Date", "Day", "Status", "Check In", "Check Out", "Recess", "Working Time", "Late (min)"}

// MonthlyAttendance writes one row per classified day followed by totals.
func MonthlyAttendance(employeeName string, s summary.Summary, loc *time.Location) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", attendanceSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	title := fmt.Sprintf("%s - %s to %s", employeeName, timeutil.DateKey(s.Start), timeutil.DateKey(s.End))
	if err := f.SetCellValue(attendanceSheet, "A1", title); err != nil {
		return nil, err
	}
	for i, header := range attendanceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		if err := f.SetCellValue(attendanceSheet, cell, header); err != nil {
			return nil, err
		}
	}

	row := 4
	for _, day := range s.Days {
		values := []interface{}{
			timeutil.DateKey(day.Date),
			day.Date.Weekday().String(),
			dayStatus(day),
			"", "", "",
			timeutil.DurationString(day.WorkingTime),
			0,
		}
		if r := day.Record; r != nil {
			if r.CheckInTime != nil {
				values[3] = r.CheckInTime.In(loc).Format("15:04")
			}
			if r.CheckOutTime != nil {
				values[4] = r.CheckOutTime.In(loc).Format("15:04")
			}
			values[5] = timeutil.DurationString(r.TotalRecessDuration())
			values[7] = r.LateByMinutes
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(attendanceSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}

	row++
	totals := [][]interface{}{
		{"Present", s.TotalPresent},
		{"Half days", s.TotalHalfDays},
		{"Absent", s.TotalAbsents},
		{"Excused", s.TotalExcused},
		{"Late check-ins", s.TotalLateCheckIns},
		{"Working time", timeutil.DurationString(s.TotalWorkingTime)},
	}
	for _, t := range totals {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(attendanceSheet, cell, &t); err != nil {
			return nil, fmt.Errorf("write totals: %w", err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func dayStatus(d summary.Day) string {
	switch d.Kind {
	case summary.DayExcused:
		if d.Reason == summary.ExcusedHoliday {
			if d.HolidayName != "" {
				return "Holiday: " + d.HolidayName
			}
			return "Holiday"
		}
		return "Not yet joined"
	case summary.DayHalfDay:
		return "Half day"
	case summary.DayPresent:
		return "Present"
	case summary.DayAbsent:
		return "Absent"
	case summary.DayIncomplete:
		return "No check-out"
	}
	return ""
}
