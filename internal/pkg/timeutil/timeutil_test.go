package timeutil

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationString(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "0h 0m"},
		{59_999 * time.Millisecond, "0h 0m"},
		{time.Minute, "0h 1m"},
		{90 * time.Minute, "1h 30m"},
		{25 * time.Hour, "25h 0m"},
		{-time.Second, "0h 0m"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DurationString(c.d), "d=%s", c.d)
	}
}

func TestParseDateParam(t *testing.T) {
	iso, err := ParseDateParam("2024-03-05")
	require.NoError(t, err)
	label, err := ParseDateParam("05-03-2024")
	require.NoError(t, err)
	assert.True(t, iso.Equal(label))
	assert.Equal(t, "2024-03-05", DateKey(iso))
	assert.Equal(t, "05-03-2024", DateLabel(iso))

	for _, bad := range []string{"", "2024/03/05", "31-02-2024", "2024-13-01", "5-3-2024"} {
		_, err := ParseDateParam(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 29, DaysInMonth(time.February, 2024))
	assert.Equal(t, 28, DaysInMonth(time.February, 2023))
	assert.Equal(t, 31, DaysInMonth(time.December, 2023))
	assert.Equal(t, 30, DaysInMonth(time.April, 2024))

	start, end := MonthRange(time.February, 2024)
	assert.Equal(t, "2024-02-01", DateKey(start))
	assert.Equal(t, "2024-02-29", DateKey(end))
	assert.Len(t, DaysBetween(start, end), 29)
	assert.Empty(t, DaysBetween(end, start))
}

func TestDayCount(t *testing.T) {
	assert.Equal(t, int64(1), DayCount(Date(2024, 3, 5), Date(2024, 3, 5)))
	assert.Equal(t, int64(366), DayCount(Date(2024, 1, 1), Date(2024, 12, 31)))
	assert.Equal(t, int64(0), DayCount(Date(2024, 3, 5), Date(2024, 3, 4)))
	assert.Equal(t, int64(3_652_059), DayCount(Date(1, 1, 1), Date(9999, 12, 31)))
}

func TestDaysBetween_RefusesHugeSpans(t *testing.T) {
	assert.Nil(t, DaysBetween(Date(1, 1, 1), Date(9999, 12, 31)))
	assert.Len(t, DaysBetween(Date(2020, 1, 1), Date(2029, 12, 31)), 3653)
}

func TestCivilDate(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already the next day in Kolkata.
	instant := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05", DateKey(CivilDate(instant, kolkata)))
	assert.Equal(t, "2024-03-04", DateKey(CivilDate(instant, time.UTC)))
}

func TestTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, "09:30", tod.String())

	at := tod.On(Date(2024, time.March, 4), time.UTC)
	assert.Equal(t, time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), at)

	_, err = ParseTimeOfDay("9.30")
	assert.Error(t, err)

	var payload struct {
		Start TimeOfDay `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"08:15"}`), &payload))
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 15}, payload.Start)
	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"08:15"}`, string(out))
}
