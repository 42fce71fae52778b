package holiday

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/google/uuid"
)

type HolidayServiceImpl struct {
	tx           database.Transactor
	holidayRepo  holiday.HolidayRepository
	employeeRepo employee.EmployeeRepository
	maxSelected  int
	loc          *time.Location
	now          func() time.Time
}

func NewHolidayService(
	tx database.Transactor,
	holidayRepo holiday.HolidayRepository,
	employeeRepo employee.EmployeeRepository,
	maxSelected int,
	loc *time.Location,
	now func() time.Time,
) holiday.HolidayService {
	if maxSelected <= 0 {
		maxSelected = holiday.DefaultMaxSelected
	}
	if now == nil {
		now = time.Now
	}
	return &HolidayServiceImpl{
		tx:           tx,
		holidayRepo:  holidayRepo,
		employeeRepo: employeeRepo,
		maxSelected:  maxSelected,
		loc:          loc,
		now:          now,
	}
}

func (s *HolidayServiceImpl) today() time.Time {
	return timeutil.CivilDate(s.now(), s.loc)
}

// ListPredefined implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListPredefined(ctx context.Context) ([]holiday.HolidayResponse, error) {
	list, err := s.holidayRepo.ListPredefined(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list predefined holidays: %w", err)
	}
	return holiday.NewHolidayResponses(list), nil
}

// AddPredefined implements holiday.HolidayService.
func (s *HolidayServiceImpl) AddPredefined(ctx context.Context, req holiday.AddPredefinedRequest) ([]holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	created := make([]holiday.Holiday, 0, len(req.Holidays))
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, in := range req.Holidays {
			h, err := s.holidayRepo.CreatePredefined(ctx, holiday.Holiday{
				ID:   uuid.Must(uuid.NewV7()).String(),
				Name: in.Name,
				Date: in.ParsedDate,
			})
			if err != nil {
				return err
			}
			created = append(created, h)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("predefined holidays added", "count", len(created))
	return holiday.NewHolidayResponses(created), nil
}

// DeletePredefined implements holiday.HolidayService.
func (s *HolidayServiceImpl) DeletePredefined(ctx context.Context, id string) error {
	return s.holidayRepo.DeletePredefined(ctx, id)
}

// ListSelected implements holiday.HolidayService.
func (s *HolidayServiceImpl) ListSelected(ctx context.Context, session auth.Session, employeeID string) ([]holiday.HolidayResponse, error) {
	resolved, err := session.ResolveEmployee(employeeID)
	if err != nil {
		return nil, err
	}
	list, err := s.holidayRepo.ListSelected(ctx, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to list selected holidays: %w", err)
	}
	return holiday.NewHolidayResponses(list), nil
}

// SelectHolidays replaces the employee's whole selection. Entries with an ID
// reference existing holidays; entries with name and date become custom
// holidays owned by the employee, unless an identical one is already selected.
func (s *HolidayServiceImpl) SelectHolidays(ctx context.Context, session auth.Session, req holiday.SelectHolidaysRequest) ([]holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	employeeID, err := session.ResolveEmployee(req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	today := s.today()
	var next []holiday.Holiday
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.holidayRepo.ListSelected(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to list selected holidays: %w", err)
		}

		next, err = s.resolveInputs(ctx, employeeID, req.Holidays, current)
		if err != nil {
			return err
		}
		next = holiday.Dedupe(next)
		if err := holiday.ValidateSelection(next, current, today, s.maxSelected); err != nil {
			return err
		}

		ids := make([]string, 0, len(next))
		for i := range next {
			if next[i].ID == "" {
				owner := employeeID
				next[i].ID = uuid.Must(uuid.NewV7()).String()
				next[i].IsCustom = true
				next[i].EmployeeID = &owner
				created, err := s.holidayRepo.CreateCustom(ctx, next[i])
				if err != nil {
					return fmt.Errorf("failed to create custom holiday: %w", err)
				}
				next[i] = created
			}
			ids = append(ids, next[i].ID)
		}
		return s.holidayRepo.ReplaceSelection(ctx, employeeID, ids)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(next, func(i, j int) bool { return next[i].Date.Before(next[j].Date) })
	slog.Info("holiday selection replaced", "employee_id", employeeID, "count", len(next))
	return holiday.NewHolidayResponses(next), nil
}

// resolveInputs turns request entries into holidays. Referenced IDs must
// exist and custom ones must belong to employeeID.
func (s *HolidayServiceImpl) resolveInputs(ctx context.Context, employeeID string, inputs []holiday.HolidayInput, current []holiday.Holiday) ([]holiday.Holiday, error) {
	var ids []string
	for _, in := range inputs {
		if in.ID != "" {
			ids = append(ids, in.ID)
		}
	}

	byID := map[string]holiday.Holiday{}
	if len(ids) > 0 {
		found, err := s.holidayRepo.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load holidays: %w", err)
		}
		for _, h := range found {
			byID[h.ID] = h
		}
	}

	out := make([]holiday.Holiday, 0, len(inputs))
	for _, in := range inputs {
		if in.ID != "" {
			h, ok := byID[in.ID]
			if !ok {
				return nil, fmt.Errorf("%w: %s", holiday.ErrHolidayNotFound, in.ID)
			}
			if h.IsCustom && (h.EmployeeID == nil || *h.EmployeeID != employeeID) {
				return nil, holiday.ErrForeignCustomHoliday
			}
			out = append(out, h)
			continue
		}

		if existing, ok := findCustom(current, in.Name, in.ParsedDate); ok {
			out = append(out, existing)
			continue
		}
		out = append(out, holiday.Holiday{Name: in.Name, Date: in.ParsedDate})
	}
	return out, nil
}

func findCustom(list []holiday.Holiday, name string, date time.Time) (holiday.Holiday, bool) {
	for _, h := range list {
		if h.IsCustom && h.Name == name && h.Date.Equal(date) {
			return h, true
		}
	}
	return holiday.Holiday{}, false
}

// AddCustomHoliday creates a custom holiday and appends it to the caller's
// selection under the same limit and date rules as SelectHolidays.
func (s *HolidayServiceImpl) AddCustomHoliday(ctx context.Context, session auth.Session, req holiday.HolidayInput) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}
	employeeID, err := session.ResolveEmployee("")
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	today := s.today()
	var created holiday.Holiday
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.holidayRepo.ListSelected(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to list selected holidays: %w", err)
		}

		owner := employeeID
		h := holiday.Holiday{
			ID:         uuid.Must(uuid.NewV7()).String(),
			Name:       req.Name,
			Date:       req.ParsedDate,
			IsCustom:   true,
			EmployeeID: &owner,
		}
		if err := holiday.ValidateSelection(append(current, h), current, today, s.maxSelected); err != nil {
			return err
		}

		created, err = s.holidayRepo.CreateCustom(ctx, h)
		if err != nil {
			return fmt.Errorf("failed to create custom holiday: %w", err)
		}
		return s.holidayRepo.AddToSelection(ctx, employeeID, created.ID)
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}
	return holiday.NewHolidayResponse(created), nil
}
