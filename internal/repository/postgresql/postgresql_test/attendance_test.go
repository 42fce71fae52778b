package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkedIn(t *testing.T, employeeID string, date, at time.Time) attendance.Record {
	t.Helper()
	r := attendance.NewRecord(newID(), employeeID, date)
	require.NoError(t, r.CheckIn(at, 0))
	return *r
}

func TestAttendanceRepository_CreateAndGet(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	empID := createTestEmployee(t, ctx, "Ana", "09:00")

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 3, 5, 9, 20, 0, 0, time.UTC)

	missing, err := repo.GetByEmployeeAndDate(ctx, empID, date)
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := repo.Create(ctx, checkedIn(t, empID, date, at))
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusCheckedIn, created.CurrentStatus)
	assert.Empty(t, created.RecessIntervals)

	got, err := repo.GetByEmployeeAndDate(ctx, empID, date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.True(t, at.Equal(*got.CheckInTime))
	assert.True(t, date.Equal(got.Date))
}

func TestAttendanceRepository_ConcurrentCheckIn(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	empID := createTestEmployee(t, ctx, "Budi", "09:00")

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	at := time.Date(2024, 3, 5, 8, 55, 0, 0, time.UTC)

	const attempts = 5
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := attendance.NewRecord(newID(), empID, date)
			_ = r.CheckIn(at, 0)
			_, errs[i] = repo.Create(ctx, *r)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)
}

func TestAttendanceRepository_UpdateIfStatus(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	empID := createTestEmployee(t, ctx, "Citra", "09:00")

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(ctx, checkedIn(t, empID, date, time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	recess := created
	require.NoError(t, recess.Apply(attendance.ActionStartRecess, time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC), 0))
	updated, err := repo.UpdateIfStatus(ctx, recess, attendance.StatusCheckedIn)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusInRecess, updated.CurrentStatus)
	require.Len(t, updated.RecessIntervals, 1)
	assert.True(t, updated.RecessIntervals[0].IsOpen())

	// A second writer still expecting checked_in loses the race.
	_, err = repo.UpdateIfStatus(ctx, recess, attendance.StatusCheckedIn)
	assert.ErrorIs(t, err, attendance.ErrConcurrentTransition)

	got, err := repo.GetByEmployeeAndDate(ctx, empID, date)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusInRecess, got.CurrentStatus)
}

func TestAttendanceRepository_ListsAndLateCheckins(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewAttendanceRepository(db)
	empID := createTestEmployee(t, ctx, "Dewi", "09:00")

	for day := 4; day <= 6; day++ {
		date := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
		_, err := repo.Create(ctx, checkedIn(t, empID, date, date.Add(9*time.Hour)))
		require.NoError(t, err)
	}

	records, err := repo.ListByEmployee(ctx, empID, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 5, records[0].Date.Day())

	byDate, err := repo.ListByDate(ctx, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, byDate, 1)

	late := attendance.LateCheckin{
		ID:                    newID(),
		EmployeeID:            empID,
		Date:                  time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		PredefinedCheckInTime: "09:00",
		ActualCheckInTime:     time.Date(2024, 3, 5, 9, 15, 0, 0, time.UTC),
		LateByMinutes:         15,
	}
	_, err = repo.CreateLateCheckin(ctx, late)
	require.NoError(t, err)

	lates, err := repo.ListLateCheckins(ctx, empID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, lates, 1)
	assert.Equal(t, 15, lates[0].LateByMinutes)
}
