package holiday

import (
	"context"
)

type HolidayRepository interface {
	ListPredefined(ctx context.Context) ([]Holiday, error)
	CreatePredefined(ctx context.Context, h Holiday) (Holiday, error)
	DeletePredefined(ctx context.Context, id string) error

	GetByIDs(ctx context.Context, ids []string) ([]Holiday, error)
	CreateCustom(ctx context.Context, h Holiday) (Holiday, error)

	// ListSelected returns the employee's selected holidays ordered by date.
	ListSelected(ctx context.Context, employeeID string) ([]Holiday, error)
	// ReplaceSelection swaps the employee's whole selection for holidayIDs.
	ReplaceSelection(ctx context.Context, employeeID string, holidayIDs []string) error
	AddToSelection(ctx context.Context, employeeID string, holidayID string) error
}
