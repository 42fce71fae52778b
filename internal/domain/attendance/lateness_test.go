package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLateByMinutes(t *testing.T) {
	nine, err := timeutil.ParseTimeOfDay("09:00")
	require.NoError(t, err)

	cases := []struct {
		name   string
		actual time.Time
		want   int
	}{
		{"early", time.Date(2024, 3, 4, 8, 59, 0, 0, time.UTC), 0},
		{"exactly on time", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), 0},
		{"thirty seconds late", time.Date(2024, 3, 4, 9, 0, 30, 0, time.UTC), 0},
		{"fifteen minutes", time.Date(2024, 3, 4, 9, 15, 0, 0, time.UTC), 15},
		{"floored", time.Date(2024, 3, 4, 9, 15, 59, 0, time.UTC), 15},
		{"afternoon", time.Date(2024, 3, 4, 14, 5, 0, 0, time.UTC), 305},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, LateByMinutes(tc.actual, nine, time.UTC))
		})
	}
}

func TestLateByMinutes_BusinessTimezone(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	nine, _ := timeutil.ParseTimeOfDay("09:00")

	// 03:45 UTC is 09:15 in Kolkata.
	actual := time.Date(2024, 3, 4, 3, 45, 0, 0, time.UTC)
	assert.Equal(t, 15, LateByMinutes(actual, nine, kolkata))
	assert.Equal(t, 0, LateByMinutes(actual, nine, time.UTC))
}

func TestLateNotice(t *testing.T) {
	assert.Nil(t, LateNotice(0))
	require.NotNil(t, LateNotice(20))
	assert.Equal(t, "You are late by 20 minutes", *LateNotice(20))
}
