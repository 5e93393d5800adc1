package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWindows() Windows {
	return Windows{
		Weekday:  OperatingWindow{StartHour: "08:00", EndHour: "22:00"},
		Saturday: OperatingWindow{StartHour: "09:00", EndHour: "21:00"},
		Sunday:   OperatingWindow{StartHour: "10:00", EndHour: "18:00"},
	}
}

func testFields() []FieldRef {
	return []FieldRef{
		{ID: 1, Name: "Cancha 1"},
		{ID: 2, Name: "Cancha 2"},
	}
}

func TestOperatingWindow(t *testing.T) {
	t.Run("Hours Inclusive Of Both Bounds", func(t *testing.T) {
		w := OperatingWindow{StartHour: "08:00", EndHour: "12:00"}
		require.NoError(t, w.Validate())
		hours := w.Hours()
		assert.Equal(t, []string{"08:00", "09:00", "10:00", "11:00", "12:00"}, hours)
	})

	t.Run("Hour Count Matches End Minus Start Plus One", func(t *testing.T) {
		for start := 6; start < 22; start++ {
			w := OperatingWindow{StartHour: FormatHour(start), EndHour: FormatHour(22)}
			require.NoError(t, w.Validate())
			assert.Len(t, w.Hours(), 22-start+1, "window %s-%s", w.StartHour, w.EndHour)
		}
	})

	t.Run("Rejects Start At Or After End", func(t *testing.T) {
		assert.ErrorIs(t, OperatingWindow{StartHour: "10:00", EndHour: "10:00"}.Validate(), ErrInvalidWindow)
		assert.ErrorIs(t, OperatingWindow{StartHour: "15:00", EndHour: "09:00"}.Validate(), ErrInvalidWindow)
	})

	t.Run("Rejects Malformed Hours", func(t *testing.T) {
		assert.Error(t, OperatingWindow{StartHour: "8am", EndHour: "22:00"}.Validate())
		assert.Error(t, OperatingWindow{StartHour: "08:00", EndHour: "25:00"}.Validate())
	})
}

func TestClassifyDay(t *testing.T) {
	// 2025-07-11 is a Friday.
	friday := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, DayWeekday, ClassifyDay(friday))
	assert.Equal(t, DaySaturday, ClassifyDay(friday.AddDate(0, 0, 1)))
	assert.Equal(t, DaySunday, ClassifyDay(friday.AddDate(0, 0, 2)))
	assert.Equal(t, DayWeekday, ClassifyDay(friday.AddDate(0, 0, 3)))
}

func TestSlotRequestValidate(t *testing.T) {
	t.Run("Valid Request", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{1}, Price: 25000, Period: PeriodWeekly, Windows: testWindows()}
		assert.NoError(t, req.Validate())
	})

	t.Run("No Fields Selected", func(t *testing.T) {
		req := SlotRequest{Price: 25000, Period: PeriodWeekly, Windows: testWindows()}
		assert.ErrorIs(t, req.Validate(), ErrNoFields)
	})

	t.Run("Bad Window Reported With Day Type", func(t *testing.T) {
		ws := testWindows()
		ws.Sunday = OperatingWindow{StartHour: "18:00", EndHour: "10:00"}
		req := SlotRequest{FieldIDs: []uint64{1}, Period: PeriodWeekly, Windows: ws}
		err := req.Validate()
		require.ErrorIs(t, err, ErrInvalidWindow)
		assert.Contains(t, err.Error(), "sunday")
	})
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeekly, p)

	p, err = ParsePeriod("monthly")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, p)

	_, err = ParsePeriod("fortnightly")
	assert.Error(t, err)
}

func TestExpand(t *testing.T) {
	club := ClubRef{ID: 7, Name: "Club Central"}
	today := time.Date(2025, 7, 11, 19, 30, 0, 0, time.UTC) // Friday evening

	t.Run("Weekly Horizon Covers Exactly Seven Dates", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{1, 2}, Price: 25000, Period: PeriodWeekly, Windows: testWindows()}
		slots := Expand(req, today, club, testFields())
		require.NotEmpty(t, slots)

		dates := map[string]struct{}{}
		for _, s := range slots {
			dates[s.Date] = struct{}{}
		}
		assert.Len(t, dates, 7)
		assert.Equal(t, "2025-07-11", slots[0].Date)
		assert.Equal(t, "2025-07-17", slots[len(slots)-1].Date, "end date is exclusive")
	})

	t.Run("Monthly Horizon Ends The Day Before One Month Later", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{1}, Price: 25000, Period: PeriodMonthly, Windows: testWindows()}
		slots := Expand(req, today, club, testFields())
		require.NotEmpty(t, slots)
		assert.Equal(t, "2025-08-10", slots[len(slots)-1].Date)
	})

	t.Run("Day Type Selects The Matching Window", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{1}, Price: 25000, Period: PeriodWeekly, Windows: testWindows()}
		slots := Expand(req, today, club, testFields())

		hoursByDate := map[string][]string{}
		for _, s := range slots {
			hoursByDate[s.Date] = append(hoursByDate[s.Date], s.StartHour)
		}
		// Friday 2025-07-11 uses the weekday window 08..22.
		assert.Len(t, hoursByDate["2025-07-11"], 15)
		// Saturday 2025-07-12 uses 09..21.
		assert.Len(t, hoursByDate["2025-07-12"], 13)
		assert.Equal(t, "09:00", hoursByDate["2025-07-12"][0])
		// Sunday 2025-07-13 uses 10..18.
		assert.Len(t, hoursByDate["2025-07-13"], 9)
		assert.Equal(t, "18:00", hoursByDate["2025-07-13"][8])
	})

	t.Run("Ordering Is Date Then Hour Then Field Selection Order", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{2, 1}, Price: 25000, Period: PeriodWeekly, Windows: testWindows()}
		slots := Expand(req, today, club, testFields())
		require.GreaterOrEqual(t, len(slots), 4)

		assert.Equal(t, uint64(2), slots[0].FieldID)
		assert.Equal(t, uint64(1), slots[1].FieldID)
		assert.Equal(t, slots[0].Date, slots[1].Date)
		assert.Equal(t, slots[0].StartHour, slots[1].StartHour)
		assert.Equal(t, "Cancha 2", slots[0].FieldName)
		assert.Equal(t, "Club Central", slots[0].ClubName)
	})

	t.Run("Idempotent For Identical Inputs", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{1, 2}, Price: 18000, Period: PeriodMonthly, Windows: testWindows()}
		first := Expand(req, today, club, testFields())
		second := Expand(req, today, club, testFields())
		assert.Equal(t, first, second)
	})

	t.Run("Unknown Field Is Silently Skipped", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{1, 99}, Price: 25000, Period: PeriodWeekly, Windows: testWindows()}
		slots := Expand(req, today, club, testFields())
		require.NotEmpty(t, slots)
		for _, s := range slots {
			assert.NotEqual(t, uint64(99), s.FieldID)
		}
		// The resolvable field still generated its full set.
		only := Expand(SlotRequest{FieldIDs: []uint64{1}, Price: 25000, Period: PeriodWeekly, Windows: testWindows()}, today, club, testFields())
		assert.Len(t, slots, len(only))
	})

	t.Run("All Slots Start Available With The Flat Price", func(t *testing.T) {
		req := SlotRequest{FieldIDs: []uint64{1}, Price: 30000, Period: PeriodWeekly, Windows: testWindows()}
		for _, s := range Expand(req, today, club, testFields()) {
			assert.True(t, s.IsAvailable)
			assert.Equal(t, uint32(30000), s.Price)
			assert.Equal(t, uint64(7), s.ClubID)
		}
	})
}
