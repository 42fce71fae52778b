package holiday

import "errors"

var (
	ErrHolidayNotFound      = errors.New("holiday not found")
	ErrHolidayDateExists    = errors.New("a predefined holiday already exists on this date")
	ErrNotPredefined        = errors.New("holiday is not a predefined holiday")
	ErrForeignCustomHoliday = errors.New("custom holiday belongs to another employee")
)
