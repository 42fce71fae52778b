package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

const holidayColumns = `h.id, h.name, h.date, h.is_custom, h.employee_id, h.created_at`

func scanHolidays(rows pgx.Rows) ([]holiday.Holiday, error) {
	defer rows.Close()

	list := []holiday.Holiday{}
	for rows.Next() {
		var h holiday.Holiday
		if err := rows.Scan(&h.ID, &h.Name, &h.Date, &h.IsCustom, &h.EmployeeID, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

func (r *holidayRepository) insert(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (id, name, date, is_custom, employee_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := q.QueryRow(ctx, query, h.ID, h.Name, h.Date, h.IsCustom, h.EmployeeID).Scan(&h.CreatedAt)
	return h, err
}

// ListPredefined implements holiday.HolidayRepository.
func (r *holidayRepository) ListPredefined(ctx context.Context) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+holidayColumns+` FROM holidays h WHERE NOT h.is_custom ORDER BY h.date`)
	if err != nil {
		return nil, fmt.Errorf("failed to list predefined holidays: %w", err)
	}
	return scanHolidays(rows)
}

// CreatePredefined implements holiday.HolidayRepository.
func (r *holidayRepository) CreatePredefined(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.IsCustom, h.EmployeeID = false, nil

	created, err := r.insert(ctx, h)
	if err != nil {
		if isUniqueViolation(err) {
			return holiday.Holiday{}, fmt.Errorf("%w: %s", holiday.ErrHolidayDateExists, h.Date.Format("2006-01-02"))
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

// DeletePredefined implements holiday.HolidayRepository. Selections that
// reference the holiday go with it.
func (r *holidayRepository) DeletePredefined(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var isCustom bool
	err := q.QueryRow(ctx, `SELECT is_custom FROM holidays WHERE id = $1`, id).Scan(&isCustom)
	if err != nil {
		if err == pgx.ErrNoRows {
			return holiday.ErrHolidayNotFound
		}
		return fmt.Errorf("failed to get holiday: %w", err)
	}
	if isCustom {
		return holiday.ErrNotPredefined
	}

	if _, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1 AND NOT is_custom`, id); err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	return nil
}

// GetByIDs implements holiday.HolidayRepository. Unknown IDs are skipped.
func (r *holidayRepository) GetByIDs(ctx context.Context, ids []string) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+holidayColumns+` FROM holidays h WHERE h.id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get holidays: %w", err)
	}
	return scanHolidays(rows)
}

// CreateCustom implements holiday.HolidayRepository.
func (r *holidayRepository) CreateCustom(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	h.IsCustom = true

	created, err := r.insert(ctx, h)
	if err != nil {
		return holiday.Holiday{}, fmt.Errorf("failed to create custom holiday: %w", err)
	}
	return created, nil
}

// ListSelected implements holiday.HolidayRepository.
func (r *holidayRepository) ListSelected(ctx context.Context, employeeID string) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + holidayColumns + `
		FROM employee_holidays eh
		JOIN holidays h ON h.id = eh.holiday_id
		WHERE eh.employee_id = $1
		ORDER BY h.date, h.name`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selected holidays: %w", err)
	}
	return scanHolidays(rows)
}

// ReplaceSelection implements holiday.HolidayRepository. Callers run it in a
// transaction so readers never see a half-replaced selection.
func (r *holidayRepository) ReplaceSelection(ctx context.Context, employeeID string, holidayIDs []string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM employee_holidays WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("failed to clear holiday selection: %w", err)
	}
	if len(holidayIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO employee_holidays (employee_id, holiday_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`
	if _, err := q.Exec(ctx, query, employeeID, holidayIDs); err != nil {
		return fmt.Errorf("failed to save holiday selection: %w", err)
	}
	return nil
}

// AddToSelection implements holiday.HolidayRepository.
func (r *holidayRepository) AddToSelection(ctx context.Context, employeeID string, holidayID string) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO employee_holidays (employee_id, holiday_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, employeeID, holidayID)
	if err != nil {
		return fmt.Errorf("failed to add holiday to selection: %w", err)
	}
	return nil
}
