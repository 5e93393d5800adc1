package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailableHours(t *testing.T) {
	// Friday 2025-07-11, 19:30 local time: minute >= 30 pushes the cutoff to 21.
	now := time.Date(2025, 7, 11, 19, 30, 0, 0, time.UTC)

	t.Run("Same Day After Half Past Skips Two Hours", func(t *testing.T) {
		hours := AvailableHours("2025-07-11", now)
		assert.Equal(t, []string{"21:00", "22:00"}, hours)
	})

	t.Run("Same Day Before Half Past Skips One Hour", func(t *testing.T) {
		early := time.Date(2025, 7, 11, 19, 29, 0, 0, time.UTC)
		hours := AvailableHours("2025-07-11", early)
		assert.Equal(t, []string{"20:00", "21:00", "22:00"}, hours)
	})

	t.Run("Other Dates Get The Full Canonical Set", func(t *testing.T) {
		hours := AvailableHours("2025-07-12", now)
		require.Len(t, hours, 15)
		assert.Equal(t, "08:00", hours[0])
		assert.Equal(t, "22:00", hours[14])
	})

	t.Run("Late Evening Leaves Nothing Bookable Today", func(t *testing.T) {
		late := time.Date(2025, 7, 11, 22, 45, 0, 0, time.UTC)
		assert.Empty(t, AvailableHours("2025-07-11", late))
	})
}

func TestSearchWindow(t *testing.T) {
	now := time.Date(2025, 7, 11, 19, 30, 0, 0, time.UTC)
	w := NewSearchWindow(now)

	assert.Equal(t, "2025-07-11", w.Today)
	assert.Equal(t, 21, w.CutoffHour)
	assert.Equal(t, "2025-07-25", w.MaxDate)

	assert.True(t, w.Contains("2025-07-11"))
	assert.True(t, w.Contains("2025-07-25"))
	assert.False(t, w.Contains("2025-07-10"))
	assert.False(t, w.Contains("2025-07-26"))
}

func TestFilterReservable(t *testing.T) {
	schedules := []Schedule{
		{ID: 1, FieldName: "Cancha 1", Date: "2025-07-12", StartHour: "09:00", IsAvailable: true},
		{ID: 2, FieldName: "Cancha 1", Date: "2025-07-12", StartHour: "10:00", IsAvailable: false},
		{ID: 3, FieldName: "Cancha 2", Date: "2025-07-13", StartHour: "09:00", IsAvailable: true},
	}

	t.Run("Date Criterion Drops Other Dates And Taken Slots", func(t *testing.T) {
		got := FilterReservable(schedules, Criteria{Date: "2025-07-12"})
		require.Len(t, got, 1)
		assert.Equal(t, uint64(1), got[0].ID)
	})

	t.Run("Hour Criterion Composes With Date", func(t *testing.T) {
		got := FilterReservable(schedules, Criteria{Date: "2025-07-13", Hour: "09:00"})
		require.Len(t, got, 1)
		assert.Equal(t, uint64(3), got[0].ID)
	})

	t.Run("Empty Criteria Keeps Every Available Slot In Input Order", func(t *testing.T) {
		got := FilterReservable(schedules, Criteria{})
		require.Len(t, got, 2)
		assert.Equal(t, uint64(1), got[0].ID)
		assert.Equal(t, uint64(3), got[1].ID)
	})

	t.Run("Empty Input Yields Empty Output", func(t *testing.T) {
		assert.Empty(t, FilterReservable(nil, Criteria{Date: "2025-07-12"}))
	})
}

func TestSortSchedules(t *testing.T) {
	schedules := []Schedule{
		{ID: 1, FieldName: "Cancha B", Date: "2025-07-13", StartHour: "09:00"},
		{ID: 2, FieldName: "Cancha B", Date: "2025-07-12", StartHour: "10:00"},
		{ID: 3, FieldName: "Cancha A", Date: "2025-07-13", StartHour: "09:00"},
		{ID: 4, FieldName: "Cancha A", Date: "2025-07-12", StartHour: "09:00"},
	}
	SortSchedules(schedules)

	ids := make([]uint64, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []uint64{4, 2, 3, 1}, ids)
}

func TestCanCancel(t *testing.T) {
	now := time.Date(2025, 7, 11, 12, 0, 0, 0, time.UTC)

	t.Run("More Than Two Hours Ahead Is Cancellable", func(t *testing.T) {
		assert.True(t, CanCancel(now.Add(2*time.Hour+time.Minute), now))
	})

	t.Run("Less Than Two Hours Ahead Is Not", func(t *testing.T) {
		assert.False(t, CanCancel(now.Add(time.Hour+59*time.Minute), now))
	})

	t.Run("Exactly Two Hours Is Not Cancellable", func(t *testing.T) {
		assert.False(t, CanCancel(now.Add(2*time.Hour), now))
	})
}

func TestScheduleStart(t *testing.T) {
	start, ok := ScheduleStart("2025-07-12", "15:00", time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 12, 15, 0, 0, 0, time.UTC), start)

	_, ok = ScheduleStart("12/07/2025", "15:00", time.UTC)
	assert.False(t, ok)
	_, ok = ScheduleStart("2025-07-12", "late", time.UTC)
	assert.False(t, ok)
}
