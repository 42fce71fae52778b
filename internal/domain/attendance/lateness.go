package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
)

// LateByMinutes compares a check-in instant with the predefined check-in
// time on the same calendar day in loc. The result is floored to whole
// minutes and never negative; zero means on time.
func LateByMinutes(actual time.Time, predefined timeutil.TimeOfDay, loc *time.Location) int {
	local := actual.In(loc)
	expected := predefined.On(local, loc)
	if !local.After(expected) {
		return 0
	}
	return int(local.Sub(expected) / time.Minute)
}
