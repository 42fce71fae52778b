package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const recordColumns = `
	id, employee_id, date, check_in_time, check_out_time, recess_intervals,
	current_status, late_check_in, late_by_minutes, created_at, updated_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var (
		r          attendance.Record
		recessJSON []byte
	)
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.Date, &r.CheckInTime, &r.CheckOutTime, &recessJSON,
		&r.CurrentStatus, &r.LateCheckIn, &r.LateByMinutes, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	r.RecessIntervals = []attendance.RecessInterval{}
	if len(recessJSON) > 0 {
		if err := json.Unmarshal(recessJSON, &r.RecessIntervals); err != nil {
			return attendance.Record{}, fmt.Errorf("failed to decode recess intervals: %w", err)
		}
	}
	return r, nil
}

func encodeRecess(intervals []attendance.RecessInterval) ([]byte, error) {
	if intervals == nil {
		intervals = []attendance.RecessInterval{}
	}
	return json.Marshal(intervals)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	recessJSON, err := encodeRecess(record.RecessIntervals)
	if err != nil {
		return attendance.Record{}, err
	}

	query := `
		INSERT INTO attendance_records (
			id, employee_id, date, check_in_time, check_out_time, recess_intervals,
			current_status, late_check_in, late_by_minutes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING` + recordColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		record.ID,
		record.EmployeeID,
		record.Date,
		record.CheckInTime,
		record.CheckOutTime,
		recessJSON,
		record.CurrentStatus,
		record.LateCheckIn,
		record.LateByMinutes,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	return created, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date = $2`

	record, err := scanRecord(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &record, nil
}

// UpdateIfStatus implements attendance.AttendanceRepository. The WHERE clause
// on current_status makes the write a compare-and-swap.
func (a *attendanceRepository) UpdateIfStatus(ctx context.Context, record attendance.Record, expected attendance.Status) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	recessJSON, err := encodeRecess(record.RecessIntervals)
	if err != nil {
		return attendance.Record{}, err
	}

	query := `
		UPDATE attendance_records
		SET check_in_time = $1,
			check_out_time = $2,
			recess_intervals = $3,
			current_status = $4,
			late_check_in = $5,
			late_by_minutes = $6,
			updated_at = NOW()
		WHERE id = $7 AND current_status = $8
		RETURNING` + recordColumns

	updated, err := scanRecord(q.QueryRow(ctx, query,
		record.CheckInTime,
		record.CheckOutTime,
		recessJSON,
		record.CurrentStatus,
		record.LateCheckIn,
		record.LateByMinutes,
		record.ID,
		expected,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Record{}, attendance.ErrConcurrentTransition
		}
		return attendance.Record{}, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return updated, nil
}

func (a *attendanceRepository) listRecords(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.Record, error) {
	query := `SELECT` + recordColumns + `
		FROM attendance_records
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`
	return a.listRecords(ctx, query, employeeID, start, end)
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Record, error) {
	query := `SELECT` + recordColumns + `
		FROM attendance_records
		WHERE date = $1
		ORDER BY check_in_time`
	return a.listRecords(ctx, query, date)
}

// CreateLateCheckin implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateLateCheckin(ctx context.Context, late attendance.LateCheckin) (attendance.LateCheckin, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO late_checkins (
			id, employee_id, date, predefined_check_in_time, actual_check_in_time, late_by_minutes
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := q.QueryRow(ctx, query,
		late.ID,
		late.EmployeeID,
		late.Date,
		late.PredefinedCheckInTime,
		late.ActualCheckInTime,
		late.LateByMinutes,
	).Scan(&late.CreatedAt)
	if err != nil {
		return attendance.LateCheckin{}, fmt.Errorf("failed to create late check-in: %w", err)
	}
	return late, nil
}

// ListLateCheckins implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListLateCheckins(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.LateCheckin, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT id, employee_id, date, predefined_check_in_time, actual_check_in_time, late_by_minutes, created_at
		FROM late_checkins
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`

	rows, err := q.Query(ctx, query, employeeID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list late check-ins: %w", err)
	}
	defer rows.Close()

	var lates []attendance.LateCheckin
	for rows.Next() {
		var l attendance.LateCheckin
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Date, &l.PredefinedCheckInTime, &l.ActualCheckInTime, &l.LateByMinutes, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan late check-in: %w", err)
		}
		lates = append(lates, l)
	}
	return lates, rows.Err()
}
