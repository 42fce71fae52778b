package holiday

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
)

type Holiday struct {
	ID         string
	Name       string
	Date       time.Time
	IsCustom   bool
	EmployeeID *string
	CreatedAt  time.Time
}

// Calendar answers isHoliday for one employee's selected set.
type Calendar struct {
	names map[string]string
}

func NewCalendar(selected []Holiday) Calendar {
	names := make(map[string]string, len(selected))
	for _, h := range selected {
		names[timeutil.DateKey(h.Date)] = h.Name
	}
	return Calendar{names: names}
}

func (c Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.names[timeutil.DateKey(date)]
	return ok
}

// Name returns the holiday name for date, if any.
func (c Calendar) Name(date time.Time) (string, bool) {
	name, ok := c.names[timeutil.DateKey(date)]
	return name, ok
}
