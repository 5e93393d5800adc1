package slot

import (
	"sort"
	"time"
)

// Canonical bookable hours offered by the search form, 08:00 through 22:00.  The
// eligibility cutoff filters this set for same-day searches; any other date gets the
// full set.
func AllHours() []string {
	out := make([]string, 0, 15)
	for h := 8; h <= 22; h++ {
		out = append(out, FormatHour(h))
	}
	return out
}

// CutoffHour returns the first bookable hour for "now": the next whole hour plus a
// 30-minute grace buffer.  Before half past, the upcoming hour is still too close so
// the one after is offered (+1); from half past on, one more is skipped (+2).  The
// rule is preserved from the original booking flow as the minimum lead time before a
// slot starts.
func CutoffHour(now time.Time) int {
	if now.Minute() < 30 {
		return now.Hour() + 1
	}
	return now.Hour() + 2
}

// AvailableHours returns the canonical hours still bookable on date.  When date is
// now's local calendar date, hours before the cutoff are dropped; other dates return
// the full canonical set.  The result is ordered and the function is pure.
func AvailableHours(date string, now time.Time) []string {
	if date != now.Format(DateLayout) {
		return AllHours()
	}
	cutoff := CutoffHour(now)
	var out []string
	for _, hour := range AllHours() {
		if h, ok := HourNumber(hour); ok && h >= cutoff {
			out = append(out, hour)
		}
	}
	return out
}

// SearchWindow bounds a schedule search derived from the current instant: only
// dates in [Today, MaxDate] and, on Today itself, only hours at or past the cutoff
// may be searched.
type SearchWindow struct {
	Today      string // now's calendar date, YYYY-MM-DD
	CutoffHour int    // first bookable whole hour on Today
	MaxDate    string // Today + 14 days, inclusive upper bound
}

// NewSearchWindow derives the search bounds from now.
func NewSearchWindow(now time.Time) SearchWindow {
	return SearchWindow{
		Today:      now.Format(DateLayout),
		CutoffHour: CutoffHour(now),
		MaxDate:    now.AddDate(0, 0, 14).Format(DateLayout),
	}
}

// Contains reports whether date falls inside the searchable range.  ISO dates
// compare correctly as strings.
func (w SearchWindow) Contains(date string) bool {
	return date >= w.Today && date <= w.MaxDate
}

// Schedule is a persisted bookable slot as seen by the eligibility filter.  The
// repository layer scans rows straight into this type so the filter, the sorter and
// the HTTP responses all share one canonical record with a single mandatory ID.
type Schedule struct {
	ID          uint64 `json:"id"`
	FieldID     uint64 `json:"field_id"`
	ClubID      uint64 `json:"club_id"`
	FieldName   string `json:"field_name"`
	ClubName    string `json:"club_name"`
	Date        string `json:"date"`
	StartHour   string `json:"start_hour"`
	Price       uint32 `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

// Criteria narrows a reservable-schedule query.  Empty Date or Hour means "any".
// Availability is always required; the filter never returns a taken slot.
type Criteria struct {
	Date string
	Hour string
}

// FilterReservable keeps the schedules that are currently reservable under the
// criteria: available, matching the date when one is given, matching the start hour
// when one is given.  Input order is preserved; ordering for display is a separate
// concern (SortSchedules).  Empty input yields empty output and there are no error
// conditions.
func FilterReservable(schedules []Schedule, c Criteria) []Schedule {
	out := make([]Schedule, 0, len(schedules))
	for _, s := range schedules {
		if !s.IsAvailable {
			continue
		}
		if c.Date != "" && s.Date != c.Date {
			continue
		}
		if c.Hour != "" && s.StartHour != c.Hour {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SortSchedules orders schedules for display: by date, then start hour, ties broken
// by field name lexical order.  It sorts in place and is stable for equal keys.
func SortSchedules(schedules []Schedule) {
	sort.SliceStable(schedules, func(i, j int) bool {
		a, b := schedules[i], schedules[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.StartHour != b.StartHour {
			return a.StartHour < b.StartHour
		}
		return a.FieldName < b.FieldName
	})
}

// cancelLeadTime is the minimum remaining time before a reserved slot starts for a
// cancellation to still be accepted.
const cancelLeadTime = 2 * time.Hour

// CanCancel reports whether a reservation starting at startsAt may still be
// cancelled at now: strictly more than two hours of lead time must remain.  The
// caller is responsible for only applying this to confirmed reservations.
func CanCancel(startsAt, now time.Time) bool {
	return startsAt.Sub(now) > cancelLeadTime
}

// ScheduleStart combines a schedule's date and start hour into a concrete instant in
// loc, for feeding CanCancel.  The boolean is false when either part is malformed.
func ScheduleStart(date, startHour string, loc *time.Location) (time.Time, bool) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, false
	}
	h, ok := HourNumber(startHour)
	if !ok {
		return time.Time{}, false
	}
	return day.Add(time.Duration(h) * time.Hour), true
}
