package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/google/uuid"
)

// Notifier fans attendance events out to live dashboards.
type Notifier interface {
	PublishToMany(topics []string, event sse.Event)
}

type AttendanceServiceImpl struct {
	tx           database.Transactor
	attendance   attendance.AttendanceRepository
	employeeRepo employee.EmployeeRepository
	notifier     Notifier
	loc          *time.Location
	now          func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	notifier Notifier,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		tx:           tx,
		attendance:   attendanceRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		loc:          loc,
		now:          now,
	}
}

// GetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStatus(ctx context.Context, session auth.Session) (attendance.RecordResponse, error) {
	if session.EmployeeID == "" {
		return attendance.RecordResponse{}, attendance.ErrEmployeeProfileMissing
	}
	now := s.now()
	date := timeutil.CivilDate(now, s.loc)

	record, err := s.attendance.GetByEmployeeAndDate(ctx, session.EmployeeID, date)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		record = attendance.NewRecord("", session.EmployeeID, date)
	}
	return attendance.NewRecordResponse(record, now, s.loc), nil
}

// Transition implements attendance.AttendanceService. The clock is read once
// and every timestamp of the transition derives from that reading.
func (s *AttendanceServiceImpl) Transition(ctx context.Context, session auth.Session, action attendance.Action) (attendance.TransitionResponse, error) {
	if session.EmployeeID == "" {
		return attendance.TransitionResponse{}, attendance.ErrEmployeeProfileMissing
	}
	employeeID := session.EmployeeID
	now := s.now()
	date := timeutil.CivilDate(now, s.loc)

	var result attendance.Record
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.attendance.GetByEmployeeAndDate(ctx, employeeID, date)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}

		if action == attendance.ActionCheckIn {
			if current != nil {
				return attendance.ErrAlreadyCheckedIn
			}
			result, err = s.checkIn(ctx, employeeID, date, now)
			return err
		}

		if current == nil {
			return attendance.ErrNotCheckedIn
		}
		expected := current.Status()
		if err := current.Apply(action, now, 0); err != nil {
			return err
		}
		result, err = s.attendance.UpdateIfStatus(ctx, *current, expected)
		return err
	})
	if err != nil {
		return attendance.TransitionResponse{}, err
	}

	slog.Info("attendance transition",
		"employee_id", employeeID,
		"action", string(action),
		"status", string(result.Status()),
		"date", timeutil.DateKey(date),
	)

	resp := attendance.TransitionResponse{
		Action: action,
		Record: attendance.NewRecordResponse(&result, now, s.loc),
	}
	if action == attendance.ActionCheckIn {
		resp.LateCheckIn = attendance.LateNotice(result.LateByMinutes)
	}
	s.publish(employeeID, resp)
	return resp, nil
}

// checkIn evaluates lateness once, at the moment of check-in, and records it.
func (s *AttendanceServiceImpl) checkIn(ctx context.Context, employeeID string, date, now time.Time) (attendance.Record, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.Record{}, err
	}

	lateBy := attendance.LateByMinutes(now, emp.PredefinedCheckIn, s.loc)
	record := attendance.NewRecord(newID(), employeeID, date)
	if err := record.CheckIn(now, lateBy); err != nil {
		return attendance.Record{}, err
	}

	created, err := s.attendance.Create(ctx, *record)
	if err != nil {
		return attendance.Record{}, err
	}

	if created.LateCheckIn {
		_, err := s.attendance.CreateLateCheckin(ctx, attendance.LateCheckin{
			ID:                    newID(),
			EmployeeID:            employeeID,
			Date:                  date,
			PredefinedCheckInTime: emp.PredefinedCheckIn.String(),
			ActualCheckInTime:     now,
			LateByMinutes:         lateBy,
		})
		if err != nil {
			return attendance.Record{}, fmt.Errorf("failed to record late check-in: %w", err)
		}
	}
	return created, nil
}

func (s *AttendanceServiceImpl) publish(employeeID string, resp attendance.TransitionResponse) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishToMany(
		[]string{sse.TopicForEmployee(employeeID), sse.TopicAdmins},
		sse.Event{Event: string(resp.Action), Data: resp.Record},
	)
}

// ListLateCheckins implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListLateCheckins(ctx context.Context, session auth.Session, filter attendance.LateCheckinFilter) (attendance.ListLateCheckinResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListLateCheckinResponse{}, err
	}
	employeeID, err := session.ResolveEmployee(filter.EmployeeID)
	if err != nil {
		return attendance.ListLateCheckinResponse{}, err
	}

	lates, err := s.attendance.ListLateCheckins(ctx, employeeID, filter.Start, filter.End)
	if err != nil {
		return attendance.ListLateCheckinResponse{}, fmt.Errorf("failed to list late check-ins: %w", err)
	}

	resp := attendance.ListLateCheckinResponse{
		EmployeeID:   employeeID,
		LateCheckins: make([]attendance.LateCheckinResponse, 0, len(lates)),
	}
	for _, l := range lates {
		resp.TotalLateCheckIns++
		resp.TotalLateMinutes += l.LateByMinutes
		resp.LateCheckins = append(resp.LateCheckins, attendance.NewLateCheckinResponse(l, s.loc))
	}
	return resp, nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
