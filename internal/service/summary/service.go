package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/summary"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/export"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"golang.org/x/sync/errgroup"
)

// maxParallelEmployees bounds fan-out for admin-wide reports.
const maxParallelEmployees = 8

type SummaryServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	holidayRepo    holiday.HolidayRepository
	employeeRepo   employee.EmployeeRepository
	policy         summary.Policy
	loc            *time.Location
	now            func() time.Time
}

func NewSummaryService(
	attendanceRepo attendance.AttendanceRepository,
	holidayRepo holiday.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
	policy summary.Policy,
	loc *time.Location,
	now func() time.Time,
) summary.SummaryService {
	if now == nil {
		now = time.Now
	}
	return &SummaryServiceImpl{
		attendanceRepo: attendanceRepo,
		holidayRepo:    holidayRepo,
		employeeRepo:   employeeRepo,
		policy:         policy,
		loc:            loc,
		now:            now,
	}
}

// Summarize implements summary.SummaryService.
func (s *SummaryServiceImpl) Summarize(ctx context.Context, employeeID string, start, end time.Time) (summary.Summary, error) {
	if err := summary.ValidateRange(start, end); err != nil {
		return summary.Summary{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return summary.Summary{}, err
	}
	return s.summarizeFor(ctx, emp, start, end)
}

func (s *SummaryServiceImpl) summarizeFor(ctx context.Context, emp employee.Employee, start, end time.Time) (summary.Summary, error) {
	var (
		records  []attendance.Record
		selected []holiday.Holiday
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.attendanceRepo.ListByEmployee(gCtx, emp.ID, start, end)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		selected, err = s.holidayRepo.ListSelected(gCtx, emp.ID)
		if err != nil {
			return fmt.Errorf("failed to list selected holidays: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return summary.Summary{}, err
	}

	return summary.Summarize(s.input(emp, start, end, records, selected, s.now()))
}

func (s *SummaryServiceImpl) input(emp employee.Employee, start, end time.Time, records []attendance.Record, selected []holiday.Holiday, now time.Time) summary.Input {
	in := summary.Input{
		EmployeeID: emp.ID,
		Start:      start,
		End:        end,
		Records:    records,
		Holidays:   holiday.NewCalendar(selected),
		Today:      timeutil.CivilDate(now, s.loc),
		Now:        now,
		Policy:     s.policy,
	}
	if !emp.JoinDate.IsZero() {
		join := emp.JoinDate
		in.JoinDate = &join
	}
	return in
}

// GetMonthly implements summary.SummaryService.
func (s *SummaryServiceImpl) GetMonthly(ctx context.Context, session auth.Session, q summary.MonthQuery) (summary.SummaryResponse, error) {
	if err := q.Validate(); err != nil {
		return summary.SummaryResponse{}, err
	}
	employeeID, err := session.ResolveEmployee(q.EmployeeID)
	if err != nil {
		return summary.SummaryResponse{}, err
	}

	result, err := s.Summarize(ctx, employeeID, q.Start, q.End)
	if err != nil {
		return summary.SummaryResponse{}, err
	}
	return summary.NewSummaryResponse(result, s.now(), s.loc), nil
}

// joinedBy lists the employees whose join date is on or before date.
func (s *SummaryServiceImpl) joinedBy(ctx context.Context, date time.Time) ([]employee.Employee, error) {
	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	employees := make([]employee.Employee, 0, len(all))
	for _, emp := range all {
		if emp.HasJoinedBy(date) {
			employees = append(employees, emp)
		}
	}
	return employees, nil
}

// eachEmployee summarizes every employee employed by end over the range,
// in parallel. Results keep the repository's employee order.
func (s *SummaryServiceImpl) eachEmployee(ctx context.Context, start, end time.Time) ([]employee.Employee, []summary.Summary, error) {
	employees, err := s.joinedBy(ctx, end)
	if err != nil {
		return nil, nil, err
	}

	results := make([]summary.Summary, len(employees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelEmployees)
	for i, emp := range employees {
		g.Go(func() error {
			res, err := s.summarizeFor(gCtx, emp, start, end)
			if err != nil {
				return fmt.Errorf("employee %s: %w", emp.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return employees, results, nil
}

// GetDailyReport implements summary.SummaryService.
// The day's records are read with one query; only holiday selections are
// loaded per employee.
func (s *SummaryServiceImpl) GetDailyReport(ctx context.Context, q summary.DateQuery) (summary.DailyReportResponse, error) {
	if err := q.Validate(); err != nil {
		return summary.DailyReportResponse{}, err
	}

	employees, err := s.joinedBy(ctx, q.Parsed)
	if err != nil {
		return summary.DailyReportResponse{}, err
	}
	records, err := s.attendanceRepo.ListByDate(ctx, q.Parsed)
	if err != nil {
		return summary.DailyReportResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	byEmployee := make(map[string]attendance.Record, len(records))
	for _, r := range records {
		byEmployee[r.EmployeeID] = r
	}

	selected := make([][]holiday.Holiday, len(employees))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelEmployees)
	for i, emp := range employees {
		g.Go(func() error {
			h, err := s.holidayRepo.ListSelected(gCtx, emp.ID)
			if err != nil {
				return fmt.Errorf("failed to list selected holidays for %s: %w", emp.ID, err)
			}
			selected[i] = h
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary.DailyReportResponse{}, err
	}

	now := s.now()
	resp := summary.DailyReportResponse{
		Date: timeutil.DateKey(q.Parsed),
		Rows: make([]summary.DailyRow, 0, len(employees)),
	}
	for i, emp := range employees {
		var own []attendance.Record
		if r, ok := byEmployee[emp.ID]; ok {
			own = []attendance.Record{r}
		}
		result, err := summary.Summarize(s.input(emp, q.Parsed, q.Parsed, own, selected[i], now))
		if err != nil {
			return summary.DailyReportResponse{}, err
		}

		day := result.Days[0]
		row := summary.DailyRow{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			Kind:         day.Kind,
			Reason:       day.Reason,
			HolidayName:  day.HolidayName,
		}
		if day.Record != nil {
			rr := attendance.NewRecordResponse(day.Record, now, s.loc)
			row.Record = &rr
		}
		switch day.Kind {
		case summary.DayPresent, summary.DayHalfDay:
			resp.TotalPresent++
		case summary.DayAbsent:
			resp.TotalAbsent++
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp, nil
}

// GetAbsenteeList implements summary.SummaryService.
func (s *SummaryServiceImpl) GetAbsenteeList(ctx context.Context, q summary.RangeQuery) (summary.AbsenteeListResponse, error) {
	if err := q.Validate(); err != nil {
		return summary.AbsenteeListResponse{}, err
	}

	employees, results, err := s.eachEmployee(ctx, q.Start, q.End)
	if err != nil {
		return summary.AbsenteeListResponse{}, err
	}

	resp := summary.AbsenteeListResponse{
		StartDate: timeutil.DateKey(q.Start),
		EndDate:   timeutil.DateKey(q.End),
		Absentees: []summary.AbsenteeRow{},
	}
	for i, emp := range employees {
		if results[i].TotalAbsents == 0 {
			continue
		}
		resp.Absentees = append(resp.Absentees, summary.AbsenteeRow{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			TotalAbsents: results[i].TotalAbsents,
			AbsentDates:  summary.NewAbsentDateResponses(results[i].AbsentDates),
		})
	}
	return resp, nil
}

// ExportMonthly implements summary.SummaryService.
func (s *SummaryServiceImpl) ExportMonthly(ctx context.Context, session auth.Session, q summary.MonthQuery) (summary.ExportFile, error) {
	if err := q.Validate(); err != nil {
		return summary.ExportFile{}, err
	}
	employeeID, err := session.ResolveEmployee(q.EmployeeID)
	if err != nil {
		return summary.ExportFile{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return summary.ExportFile{}, err
	}

	result, err := s.summarizeFor(ctx, emp, q.Start, q.End)
	if err != nil {
		return summary.ExportFile{}, err
	}
	content, err := export.MonthlyAttendance(emp.FullName, result, s.loc)
	if err != nil {
		return summary.ExportFile{}, fmt.Errorf("failed to export attendance: %w", err)
	}

	return summary.ExportFile{
		Name:        fmt.Sprintf("attendance-%s-%04d-%02d.xlsx", emp.ID, q.YearNumber(), int(q.MonthNumber())),
		ContentType: export.XLSXContentType,
		Content:     content,
	}, nil
}
