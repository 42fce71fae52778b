package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const empID = "0190b0c8-7a3e-7cde-8f00-000000000001"

type fakeSalaryRepo struct {
	byEmployee map[string]payroll.SalaryRecord
}

func newFakeSalaryRepo() *fakeSalaryRepo {
	return &fakeSalaryRepo{byEmployee: map[string]payroll.SalaryRecord{}}
}

func (f *fakeSalaryRepo) List(context.Context) ([]payroll.SalaryRecord, error) {
	var out []payroll.SalaryRecord
	for _, s := range f.byEmployee {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSalaryRepo) GetByID(_ context.Context, id string) (payroll.SalaryRecord, error) {
	for _, s := range f.byEmployee {
		if s.ID == id {
			return s, nil
		}
	}
	return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
}

func (f *fakeSalaryRepo) GetByEmployeeID(_ context.Context, employeeID string) (payroll.SalaryRecord, error) {
	s, ok := f.byEmployee[employeeID]
	if !ok {
		return payroll.SalaryRecord{}, payroll.ErrSalaryNotFound
	}
	return s, nil
}

func (f *fakeSalaryRepo) Upsert(_ context.Context, s payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	if existing, ok := f.byEmployee[s.EmployeeID]; ok {
		s.ID = existing.ID
	}
	f.byEmployee[s.EmployeeID] = s
	return s, nil
}

func (f *fakeSalaryRepo) Update(_ context.Context, s payroll.SalaryRecord) (payroll.SalaryRecord, error) {
	f.byEmployee[s.EmployeeID] = s
	return s, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
}

func (fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if id != empID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return employee.Employee{ID: empID, FullName: "Asha"}, nil
}

func (fakeEmployeeRepo) List(context.Context) ([]employee.Employee, error) {
	return []employee.Employee{{ID: empID, FullName: "Asha"}}, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	lates []attendance.LateCheckin
}

func (f fakeAttendanceRepo) ListLateCheckins(context.Context, string, time.Time, time.Time) ([]attendance.LateCheckin, error) {
	return f.lates, nil
}

// fakeSummaries returns a fixed classification for any range.
type fakeSummaries struct {
	summary.SummaryService
	result summary.Summary
}

func (f fakeSummaries) Summarize(_ context.Context, employeeID string, start, end time.Time) (summary.Summary, error) {
	s := f.result
	s.EmployeeID, s.Start, s.End = employeeID, start, end
	return s, nil
}

func march(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var adminSession = auth.Session{UserID: "u0", Role: user.RoleAdmin}

func seededSalary(repo *fakeSalaryRepo, base, bonuses, manual string) {
	s := payroll.SalaryRecord{ID: "s1", EmployeeID: empID, BaseSalary: dec(base), Bonuses: dec(bonuses), Deductions: dec(manual)}
	s.Recalculate()
	repo.byEmployee[empID] = s
}

func TestUpsertSalary_RecomputesTotal(t *testing.T) {
	repo := newFakeSalaryRepo()
	svc := NewPayrollService(repo, fakeEmployeeRepo{}, fakeAttendanceRepo{}, fakeSummaries{}, payroll.NewEngine(nil), time.UTC)

	resp, err := svc.UpsertSalary(context.Background(), payroll.UpsertSalaryRequest{
		EmployeeID: empID,
		BaseSalary: dec("5000"),
		Bonuses:    dec("250.50"),
		Deductions: dec("100"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalSalary.Equal(dec("5150.50")))
	require.NotNil(t, resp.EmployeeName)
	assert.Equal(t, "Asha", *resp.EmployeeName)

	firstID := resp.ID
	resp, err = svc.UpsertSalary(context.Background(), payroll.UpsertSalaryRequest{EmployeeID: empID, BaseSalary: dec("6000")})
	require.NoError(t, err)
	assert.Equal(t, firstID, resp.ID)
	assert.True(t, resp.TotalSalary.Equal(dec("6000")))
}

func TestUpsertSalary_RejectsNegative(t *testing.T) {
	svc := NewPayrollService(newFakeSalaryRepo(), fakeEmployeeRepo{}, fakeAttendanceRepo{}, fakeSummaries{}, payroll.NewEngine(nil), time.UTC)

	_, err := svc.UpsertSalary(context.Background(), payroll.UpsertSalaryRequest{EmployeeID: empID, BaseSalary: dec("-1")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "baseSalary")
}

func TestUpdateSalary_PartialFields(t *testing.T) {
	repo := newFakeSalaryRepo()
	seededSalary(repo, "3000", "0", "0")
	svc := NewPayrollService(repo, fakeEmployeeRepo{}, fakeAttendanceRepo{}, fakeSummaries{}, payroll.NewEngine(nil), time.UTC)

	bonus := dec("300")
	resp, err := svc.UpdateSalary(context.Background(), "s1", payroll.UpdateSalaryRequest{Bonuses: &bonus})
	require.NoError(t, err)
	assert.True(t, resp.BaseSalary.Equal(dec("3000")))
	assert.True(t, resp.TotalSalary.Equal(dec("3300")))

	_, err = svc.UpdateSalary(context.Background(), "missing", payroll.UpdateSalaryRequest{Bonuses: &bonus})
	assert.ErrorIs(t, err, payroll.ErrSalaryNotFound)
}

func TestGetSalaryByEmployee_EmployeeSeesOnlyOwn(t *testing.T) {
	repo := newFakeSalaryRepo()
	seededSalary(repo, "3000", "0", "0")
	svc := NewPayrollService(repo, fakeEmployeeRepo{}, fakeAttendanceRepo{}, fakeSummaries{}, payroll.NewEngine(nil), time.UTC)

	own := auth.Session{UserID: "u1", EmployeeID: empID, Role: user.RoleEmployee}
	resp, err := svc.GetSalaryByEmployee(context.Background(), own, "")
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.ID)

	_, err = svc.GetSalaryByEmployee(context.Background(), own, "someone-else")
	assert.ErrorIs(t, err, user.ErrInsufficientPermissions)
}

func TestGetAbsentAndHalfDayDeduction(t *testing.T) {
	repo := newFakeSalaryRepo()
	seededSalary(repo, "3100", "0", "0")
	sums := fakeSummaries{result: summary.Summary{
		TotalAbsents:  2,
		AbsentDates:   []time.Time{march(4), march(5)},
		TotalHalfDays: 1,
		HalfDays:      []summary.Day{{Date: march(6), Kind: summary.DayHalfDay, WorkingTime: 3 * time.Hour}},
	}}
	svc := NewPayrollService(repo, fakeEmployeeRepo{}, fakeAttendanceRepo{}, sums, payroll.NewEngine(nil), time.UTC)
	q := summary.RangeQuery{EmployeeID: empID, StartDate: "2024-03-01", EndDate: "31-03-2024"}

	absent, err := svc.GetAbsentDeduction(context.Background(), adminSession, q)
	require.NoError(t, err)
	assert.True(t, absent.DailySalary.Equal(dec("100")))
	assert.True(t, absent.TotalDeduction.Equal(dec("200")))
	require.Len(t, absent.AbsentDates, 2)
	assert.Equal(t, "04-03-2024", absent.AbsentDates[0].Label)

	halfDay, err := svc.GetHalfDayDeduction(context.Background(), adminSession, q)
	require.NoError(t, err)
	assert.Equal(t, 1, halfDay.TotalHalfDays)
	assert.True(t, halfDay.TotalDeduction.Equal(dec("50")))
	require.Len(t, halfDay.HalfDayDetails, 1)
	assert.Equal(t, "3h 0m", halfDay.HalfDayDetails[0].WorkingTime)
}

func TestDeduction_NoSalaryConfigured(t *testing.T) {
	svc := NewPayrollService(newFakeSalaryRepo(), fakeEmployeeRepo{}, fakeAttendanceRepo{}, fakeSummaries{}, payroll.NewEngine(nil), time.UTC)

	_, err := svc.GetAbsentDeduction(context.Background(), adminSession,
		summary.RangeQuery{EmployeeID: empID, StartDate: "2024-03-01", EndDate: "2024-03-31"})
	assert.ErrorIs(t, err, payroll.ErrEmployeeHasNoSalary)
}

func TestGetLateDeduction_PerMinute(t *testing.T) {
	repo := newFakeSalaryRepo()
	seededSalary(repo, "3100", "200", "100")
	lates := fakeAttendanceRepo{lates: []attendance.LateCheckin{
		{ID: "l1", EmployeeID: empID, Date: march(4), PredefinedCheckInTime: "09:00", ActualCheckInTime: march(4).Add(9*time.Hour + 10*time.Minute), LateByMinutes: 10},
		{ID: "l2", EmployeeID: empID, Date: march(5), PredefinedCheckInTime: "09:00", ActualCheckInTime: march(5).Add(9*time.Hour + 20*time.Minute), LateByMinutes: 20},
	}}
	engine := payroll.NewEngine(payroll.PerMinuteLatePolicy{Rate: dec("2")})
	svc := NewPayrollService(repo, fakeEmployeeRepo{}, lates, fakeSummaries{}, engine, time.UTC)

	resp, err := svc.GetLateDeduction(context.Background(), adminSession, summary.MonthQuery{EmployeeID: empID, Month: "3", Year: "2024"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalLateCheckIns)
	assert.Equal(t, 30, resp.TotalLateMinutes)
	assert.Equal(t, payroll.PolicyPerMinute, resp.LatePolicy)
	assert.True(t, resp.TotalDeduction.Equal(dec("60")))
	assert.True(t, resp.FinalSalary.Equal(dec("3140")))
	assert.Len(t, resp.LateCheckInDetails, 2)
}

func TestGetOverview(t *testing.T) {
	repo := newFakeSalaryRepo()
	seededSalary(repo, "3100", "200", "100")
	sums := fakeSummaries{result: summary.Summary{
		TotalPresent:      18,
		TotalAbsents:      2,
		TotalHalfDays:     1,
		TotalLateCheckIns: 5,
		TotalLateMinutes:  75,
	}}
	engine := payroll.NewEngine(payroll.FlatLatePolicy{PerIncident: dec("10")})
	svc := NewPayrollService(repo, fakeEmployeeRepo{}, fakeAttendanceRepo{}, sums, engine, time.UTC)

	resp, err := svc.GetOverview(context.Background(), adminSession, summary.MonthQuery{EmployeeID: empID, Month: "3", Year: "2024"})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Month)
	assert.True(t, resp.AbsentDeduction.Equal(dec("200")))
	assert.True(t, resp.HalfDayDeduction.Equal(dec("50")))
	assert.True(t, resp.LateDeduction.Equal(dec("50")))
	assert.True(t, resp.TotalDeduction.Equal(dec("300")))
	assert.True(t, resp.FinalSalary.Equal(dec("2900")))
	assert.False(t, resp.Clamped)
}

func TestGetOverview_ClampsAtZero(t *testing.T) {
	repo := newFakeSalaryRepo()
	seededSalary(repo, "3100", "0", "1000")
	sums := fakeSummaries{result: summary.Summary{TotalAbsents: 31}}
	svc := NewPayrollService(repo, fakeEmployeeRepo{}, fakeAttendanceRepo{}, sums, payroll.NewEngine(nil), time.UTC)

	resp, err := svc.GetOverview(context.Background(), adminSession, summary.MonthQuery{EmployeeID: empID, Month: "3", Year: "2024"})
	require.NoError(t, err)
	assert.True(t, resp.FinalSalary.IsZero())
	assert.True(t, resp.Clamped)
}
