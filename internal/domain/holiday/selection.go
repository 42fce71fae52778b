package holiday

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

// DefaultMaxSelected is the selection limit when none is configured.
const DefaultMaxSelected = 10

// ValidateSelection checks a replacement selection against the limit and
// against dates already past. A past date that is already in current may
// stay selected; it just cannot be newly added.
func ValidateSelection(next, current []Holiday, today time.Time, max int) error {
	var errs validator.ValidationErrors

	if len(next) > max {
		errs = append(errs, validator.ValidationError{
			Field:   "holidays",
			Message: fmt.Sprintf("at most %d holidays can be selected", max),
		})
	}

	kept := make(map[string]bool, len(current))
	for _, h := range current {
		kept[selectionKey(h)] = true
	}
	for i, h := range next {
		if h.Date.Before(today) && !kept[selectionKey(h)] {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("holidays[%d].date", i),
				Message: fmt.Sprintf("%s is in the past and cannot be selected", timeutil.DateKey(h.Date)),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dedupe drops repeated entries, keeping the first occurrence.
func Dedupe(list []Holiday) []Holiday {
	seen := make(map[string]bool, len(list))
	out := make([]Holiday, 0, len(list))
	for _, h := range list {
		key := selectionKey(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

func selectionKey(h Holiday) string {
	if h.ID != "" {
		return h.ID
	}
	return timeutil.DateKey(h.Date) + "|" + h.Name
}
