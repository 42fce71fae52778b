package summary

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Record
}

func (f fakeAttendanceRepo) ListByEmployee(_ context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.EmployeeID == employeeID && !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f fakeAttendanceRepo) ListByDate(_ context.Context, d time.Time) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range f.records {
		if r.Date.Equal(d) {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeHolidayRepo struct {
	holiday.HolidayRepository
	selected map[string][]holiday.Holiday
	err      error
}

func (f fakeHolidayRepo) ListSelected(_ context.Context, employeeID string) ([]holiday.Holiday, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.selected[employeeID], nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f fakeEmployeeRepo) List(context.Context) ([]employee.Employee, error) {
	return f.employees, nil
}

func date(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func workedDay(t *testing.T, employeeID string, d, fromHour, toHour int) attendance.Record {
	t.Helper()
	r := attendance.NewRecord("r-"+employeeID+date(d).Format("0102"), employeeID, date(d))
	require.NoError(t, r.CheckIn(date(d).Add(time.Duration(fromHour)*time.Hour), 0))
	require.NoError(t, r.CheckOut(date(d).Add(time.Duration(toHour)*time.Hour)))
	return *r
}

func newService(t *testing.T, holidays fakeHolidayRepo) summary.SummaryService {
	t.Helper()
	records := []attendance.Record{
		workedDay(t, "e1", 4, 9, 18),
		workedDay(t, "e1", 5, 9, 12),
	}
	emps := fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "e1", FullName: "Asha", JoinDate: date(2)},
		{ID: "e2", FullName: "Bima", JoinDate: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}}
	now := func() time.Time { return date(6).Add(10 * time.Hour) }
	return NewSummaryService(fakeAttendanceRepo{records: records}, holidays, emps,
		summary.Policy{HalfDayThreshold: 4 * time.Hour}, time.UTC, now)
}

var (
	employeeSession = auth.Session{UserID: "u1", EmployeeID: "e1", Role: user.RoleEmployee}
	adminSession    = auth.Session{UserID: "u0", Role: user.RoleAdmin}
)

func TestGetMonthly(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{selected: map[string][]holiday.Holiday{
		"e1": {{ID: "h1", Name: "Founders Day", Date: date(3)}},
	}})

	resp, err := svc.GetMonthly(context.Background(), employeeSession, summary.MonthQuery{Month: "3", Year: "2024"})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-01", resp.StartDate)
	assert.Equal(t, "2024-03-31", resp.EndDate)
	assert.Equal(t, 1, resp.TotalPresent)
	assert.Equal(t, 1, resp.TotalHalfDays)
	assert.Equal(t, 2, resp.TotalExcused)
	assert.Equal(t, 2, resp.TotalAbsents)
	require.Len(t, resp.AbsentDates, 2)
	assert.Equal(t, "02-03-2024", resp.AbsentDates[0].Label)
	assert.Equal(t, "2024-03-06", resp.AbsentDates[1].Date)
	assert.Equal(t, "12h 0m", resp.TotalWorkingTime)
	assert.Len(t, resp.Records, 2)
}

func TestGetMonthly_EmployeeCannotReadOthers(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{})

	_, err := svc.GetMonthly(context.Background(), employeeSession, summary.MonthQuery{EmployeeID: "e2", Month: "3", Year: "2024"})
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestGetMonthly_InvalidMonth(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{})

	_, err := svc.GetMonthly(context.Background(), adminSession, summary.MonthQuery{EmployeeID: "e1", Month: "13", Year: "2024"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "month")
}

func TestSummarize_PropagatesRepositoryError(t *testing.T) {
	boom := errors.New("connection reset")
	svc := newService(t, fakeHolidayRepo{err: boom})

	_, err := svc.Summarize(context.Background(), "e1", date(1), date(5))
	assert.ErrorIs(t, err, boom)
}

func TestSummarize_UnknownEmployee(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{})

	_, err := svc.Summarize(context.Background(), "ghost", date(1), date(5))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestGetDailyReport(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{})

	resp, err := svc.GetDailyReport(context.Background(), summary.DateQuery{Date: "04-03-2024"})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-04", resp.Date)
	assert.Equal(t, 1, resp.TotalPresent)
	assert.Equal(t, 1, resp.TotalAbsent)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "e1", resp.Rows[0].EmployeeID)
	assert.Equal(t, summary.DayPresent, resp.Rows[0].Kind)
	require.NotNil(t, resp.Rows[0].Record)
	assert.Equal(t, summary.DayAbsent, resp.Rows[1].Kind)
	assert.Nil(t, resp.Rows[1].Record)
}

func TestGetDailyReport_HolidayAndJoinDate(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{selected: map[string][]holiday.Holiday{
		"e2": {{ID: "h1", Name: "Nyepi", Date: date(4)}},
	}})

	resp, err := svc.GetDailyReport(context.Background(), summary.DateQuery{Date: "2024-03-04"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, summary.DayExcused, resp.Rows[1].Kind)
	assert.Equal(t, "Nyepi", resp.Rows[1].HolidayName)
	assert.Equal(t, 0, resp.TotalAbsent)

	// e1 joins on the 2nd and is left out of earlier reports.
	resp, err = svc.GetDailyReport(context.Background(), summary.DateQuery{Date: "2024-03-01"})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "e2", resp.Rows[0].EmployeeID)
	assert.Equal(t, 1, resp.TotalAbsent)
}

func TestGetAbsenteeList_SkipsFutureJoiners(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{})

	resp, err := svc.GetAbsenteeList(context.Background(), summary.RangeQuery{StartDate: "2024-02-26", EndDate: "2024-03-01"})
	require.NoError(t, err)

	require.Len(t, resp.Absentees, 1)
	assert.Equal(t, "e2", resp.Absentees[0].EmployeeID)
	assert.Equal(t, 5, resp.Absentees[0].TotalAbsents)
}

func TestGetAbsenteeList(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{})

	resp, err := svc.GetAbsenteeList(context.Background(), summary.RangeQuery{StartDate: "2024-03-04", EndDate: "2024-03-05"})
	require.NoError(t, err)

	require.Len(t, resp.Absentees, 1)
	assert.Equal(t, "e2", resp.Absentees[0].EmployeeID)
	assert.Equal(t, 2, resp.Absentees[0].TotalAbsents)
}

func TestExportMonthly(t *testing.T) {
	svc := newService(t, fakeHolidayRepo{})

	file, err := svc.ExportMonthly(context.Background(), adminSession, summary.MonthQuery{EmployeeID: "e1", Month: "3", Year: "2024"})
	require.NoError(t, err)

	assert.Equal(t, "attendance-e1-2024-03.xlsx", file.Name)
	assert.Equal(t, export.XLSXContentType, file.ContentType)
	assert.NotEmpty(t, file.Content)
}
