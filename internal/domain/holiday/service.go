package holiday

import (
	"context"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
)

type HolidayService interface {
	ListPredefined(ctx context.Context) ([]HolidayResponse, error)
	AddPredefined(ctx context.Context, req AddPredefinedRequest) ([]HolidayResponse, error)
	DeletePredefined(ctx context.Context, id string) error

	ListSelected(ctx context.Context, session auth.Session, employeeID string) ([]HolidayResponse, error)
	SelectHolidays(ctx context.Context, session auth.Session, req SelectHolidaysRequest) ([]HolidayResponse, error)
	AddCustomHoliday(ctx context.Context, session auth.Session, req HolidayInput) (HolidayResponse, error)
}
