// Package slot implements the schedule-slot generation and reservation-eligibility
// engine.  Given a club's operating windows and a horizon it expands the full set of
// bookable (field, date, hour) slots, and given "now" it decides which hours and
// schedules are still reservable.  Everything in this package is a pure, synchronous
// transform over its inputs: no storage, no clock reads, no shared state.  Callers
// (handlers, repositories) pass the reference instant in explicitly.
package slot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DayType classifies a calendar date for operating-hours purposes.  Clubs configure
// one operating window per day type: Monday through Friday share a single window,
// Saturday and Sunday each get their own.
type DayType int

const (
	DayWeekday DayType = iota // Monday..Friday
	DaySaturday
	DaySunday
)

// String returns the day type name used in request payloads and logs.
func (d DayType) String() string {
	switch d {
	case DaySaturday:
		return "saturday"
	case DaySunday:
		return "sunday"
	default:
		return "weekday"
	}
}

// ClassifyDay maps a calendar date to its DayType.  time.Weekday numbers Sunday as 0
// and Saturday as 6; everything in between is a weekday.
func ClassifyDay(t time.Time) DayType {
	switch t.Weekday() {
	case time.Sunday:
		return DaySunday
	case time.Saturday:
		return DaySaturday
	default:
		return DayWeekday
	}
}

// Period is the horizon over which slots are generated.
type Period string

const (
	PeriodWeekly  Period = "weekly"  // [today, today+7d)
	PeriodMonthly Period = "monthly" // [today, today+1 calendar month)
)

// ParsePeriod normalizes a raw period string.  Unknown values are rejected so a typo
// in the request never silently produces a weekly horizon.
func ParsePeriod(raw string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(PeriodWeekly):
		return PeriodWeekly, nil
	case string(PeriodMonthly):
		return PeriodMonthly, nil
	}
	return "", fmt.Errorf("invalid period %q", raw)
}

// OperatingWindow is a half-open hour range ("08:00" to "22:00") during which a club
// offers slots on a given day type.  Both bounds are whole hours in HH:00 form; the
// end hour is the start of the last bookable slot, so Hours() includes both bounds.
type OperatingWindow struct {
	StartHour string `json:"start_hour"`
	EndHour   string `json:"end_hour"`
}

// ErrInvalidWindow is returned when a window's start hour is not strictly before its
// end hour.  Validation runs before any expansion so a bad window never produces a
// partial result.
var ErrInvalidWindow = errors.New("start hour must be before end hour")

// ErrNoFields is returned when a slot request selects no fields at all.
var ErrNoFields = errors.New("at least one field must be selected")

// HourNumber extracts the numeric hour from an HH:00 label.  The second return value
// is false for anything that does not look like a zero-padded 24h hour.
func HourNumber(hour string) (int, bool) {
	h, _, ok := strings.Cut(hour, ":")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(h)
	if err != nil || n < 0 || n > 23 {
		return 0, false
	}
	return n, true
}

// FormatHour renders a numeric hour as the canonical zero-padded HH:00 label.
func FormatHour(h int) string {
	return fmt.Sprintf("%02d:00", h)
}

// Validate checks the window invariant.  It returns ErrInvalidWindow when the start
// hour is greater than or equal to the end hour, or when either bound is malformed.
func (w OperatingWindow) Validate() error {
	start, ok := HourNumber(w.StartHour)
	if !ok {
		return fmt.Errorf("%w: bad start hour %q", ErrInvalidWindow, w.StartHour)
	}
	end, ok := HourNumber(w.EndHour)
	if !ok {
		return fmt.Errorf("%w: bad end hour %q", ErrInvalidWindow, w.EndHour)
	}
	if start >= end {
		return ErrInvalidWindow
	}
	return nil
}

// Hours enumerates the window's bookable start hours inclusive of both bounds,
// stepping by whole hours.  A validated window with start < end yields exactly
// end-start+1 entries.  An invalid window yields nil.
func (w OperatingWindow) Hours() []string {
	start, ok := HourNumber(w.StartHour)
	if !ok {
		return nil
	}
	end, ok := HourNumber(w.EndHour)
	if !ok || start > end {
		return nil
	}
	out := make([]string, 0, end-start+1)
	for h := start; h <= end; h++ {
		out = append(out, FormatHour(h))
	}
	return out
}

// Windows holds one operating window per day type.
type Windows struct {
	Weekday  OperatingWindow `json:"weekdays"`
	Saturday OperatingWindow `json:"saturday"`
	Sunday   OperatingWindow `json:"sunday"`
}

// ForDay selects the window that applies to the given day type.
func (ws Windows) ForDay(d DayType) OperatingWindow {
	switch d {
	case DaySaturday:
		return ws.Saturday
	case DaySunday:
		return ws.Sunday
	default:
		return ws.Weekday
	}
}

// Validate checks all three windows and reports the first violation together with
// the day type it belongs to.
func (ws Windows) Validate() error {
	for _, d := range []DayType{DayWeekday, DaySaturday, DaySunday} {
		if err := ws.ForDay(d).Validate(); err != nil {
			return fmt.Errorf("%s: %w", d, err)
		}
	}
	return nil
}

// SlotRequest describes one generation call: which fields, at what flat price, over
// which horizon, under which operating windows.  The request is transient; only the
// expanded CandidateSlots are persisted.  FieldIDs keeps the caller's selection order
// because output ordering is field-selection order within each hour.
type SlotRequest struct {
	FieldIDs []uint64
	Price    uint32
	Period   Period
	Windows  Windows
}

// Validate enforces the request invariants: every window well-formed and at least
// one field selected.  It never partially applies; Expand must not be called with an
// invalid request.
func (r SlotRequest) Validate() error {
	if err := r.Windows.Validate(); err != nil {
		return err
	}
	if len(r.FieldIDs) == 0 {
		return ErrNoFields
	}
	return nil
}

// ClubRef carries the club identity and display name stamped onto every generated
// slot.  Names are looked up once per generation call, never per slot.
type ClubRef struct {
	ID   uint64
	Name string
}

// FieldRef is one known field of the club: identity plus display name.
type FieldRef struct {
	ID   uint64
	Name string
}

// CandidateSlot is one bookable (field, date, hour) unit produced by the expander.
// Once accepted by the schedule store it becomes a durable Schedule whose
// availability is flipped by the reservation flow, never by this package.
type CandidateSlot struct {
	FieldID     uint64 `json:"field_id"`
	ClubID      uint64 `json:"club_id"`
	FieldName   string `json:"field_name"`
	ClubName    string `json:"club_name"`
	Date        string `json:"date"` // YYYY-MM-DD
	StartHour   string `json:"start_hour"`
	Price       uint32 `json:"price"`
	IsAvailable bool   `json:"is_available"`
}

// DateLayout is the calendar-date format used throughout: ISO YYYY-MM-DD.
const DateLayout = "2006-01-02"

// horizonEnd computes the exclusive end date of the generation horizon.  Weekly is a
// flat seven days; monthly lands on the same day-of-month one month later (normalized
// by the calendar, so Jan 31 + 1 month rolls into March).
func horizonEnd(today time.Time, p Period) time.Time {
	if p == PeriodMonthly {
		return today.AddDate(0, 1, 0)
	}
	return today.AddDate(0, 0, 7)
}

// Expand produces the full cross product of dates, hours and selected fields for the
// request.  today is the generation reference instant; only its calendar date is
// used.  The output is date-major, then hour, then field-selection order, and is
// byte-identical across calls with identical inputs.
//
// A selected field id that does not resolve against knownFields is silently skipped
// rather than treated as an error; the club page may hold a stale selection.
func Expand(req SlotRequest, today time.Time, club ClubRef, knownFields []FieldRef) []CandidateSlot {
	names := make(map[uint64]string, len(knownFields))
	for _, f := range knownFields {
		names[f.ID] = f.Name
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	end := horizonEnd(day, req.Period)

	var out []CandidateSlot
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		hours := req.Windows.ForDay(ClassifyDay(day)).Hours()
		for _, hour := range hours {
			for _, fieldID := range req.FieldIDs {
				name, ok := names[fieldID]
				if !ok {
					continue
				}
				out = append(out, CandidateSlot{
					FieldID:     fieldID,
					ClubID:      club.ID,
					FieldName:   name,
					ClubName:    club.Name,
					Date:        date,
					StartHour:   hour,
					Price:       req.Price,
					IsAvailable: true,
				})
			}
		}
	}
	return out
}
