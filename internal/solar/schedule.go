package solar

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/neiam/theme-sender/internal/geolocation"
	"github.com/neiam/theme-sender/internal/theme"
)

// Sun elevations, in degrees, that bound the phases.
const (
	astronomicalElevation = -18.0
	nauticalElevation     = -12.0
	civilElevation        = -6.0
	horizonElevation      = -0.833
	dayElevation          = 6.0
)

// Calculator is the astronomy behind a schedule.
type Calculator interface {
	// PhaseStart returns the instant phase id begins on the local calendar
	// date of day, or ErrNoEventForLatitude if it does not occur that day.
	PhaseStart(loc geolocation.Location, day time.Time, id theme.ID) (time.Time, error)

	// Elevation returns the sun's altitude in degrees at t.
	Elevation(loc geolocation.Location, t time.Time) float64
}

// Event marks the instant a phase begins.
type Event struct {
	At    time.Time `json:"at"`
	Theme theme.ID  `json:"theme"`
}

// Schedule is the ordered list of phase boundaries for one local day.
// The previous day's events are kept so instants before the first boundary
// resolve to the phase that began the evening before.
type Schedule struct {
	date        time.Time
	events      []Event
	timeline    []Event
	substituted []theme.ID
}

// NewSchedule builds a schedule directly from events, without wrap-around
// history: instants before the first event resolve to the last one.
func NewSchedule(date time.Time, events []Event) Schedule {
	sorted := slices.Clone(events)
	sortEvents(sorted)
	return Schedule{
		date:     midnight(date),
		events:   sorted,
		timeline: sorted,
	}
}

// Compute derives the schedule for the local calendar date of date at loc.
//
// Phases that do not occur are dropped, so the preceding boundary governs the
// time they would have covered. When no phase occurs at all the whole day is
// one event at local midnight, themed by the sun's elevation at local noon.
// Either way the missing phases are listed by Substituted.
func Compute(calc Calculator, loc geolocation.Location, date time.Time) (Schedule, error) {
	if err := loc.Validate(); err != nil {
		return Schedule{}, err
	}

	day := midnight(date)
	today, missing, err := dayEvents(calc, loc, day)
	if err != nil {
		return Schedule{}, err
	}
	previous, _, err := dayEvents(calc, loc, day.AddDate(0, 0, -1))
	if err != nil {
		return Schedule{}, err
	}

	timeline := append(previous, today...)
	sortEvents(timeline)

	return Schedule{
		date:        day,
		events:      today,
		timeline:    timeline,
		substituted: missing,
	}, nil
}

func dayEvents(calc Calculator, loc geolocation.Location, day time.Time) ([]Event, []theme.ID, error) {
	events := make([]Event, 0, len(theme.All))
	var missing []theme.ID

	for _, id := range theme.All {
		at, err := calc.PhaseStart(loc, day, id)
		if errors.Is(err, ErrNoEventForLatitude) {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("computing %v for %s: %w", id, day.Format(time.DateOnly), err)
		}
		events = append(events, Event{At: at, Theme: id})
	}

	if len(events) == 0 {
		noon := day.Add(12 * time.Hour)
		events = append(events, Event{At: day, Theme: PhaseForElevation(calc.Elevation(loc, noon))})
	}

	sortEvents(events)
	return events, missing, nil
}

// PhaseForElevation names the phase a sun elevation falls in, using the
// morning names for the twilight bands.
func PhaseForElevation(degrees float64) theme.ID {
	switch {
	case degrees >= dayElevation:
		return theme.Day
	case degrees >= horizonElevation:
		return theme.Sunrise
	case degrees >= civilElevation:
		return theme.CivilDawn
	case degrees >= nauticalElevation:
		return theme.NauticalDawn
	case degrees >= astronomicalElevation:
		return theme.AstronomicalDawn
	default:
		return theme.Night
	}
}

// Lookup returns the latest event at or before t. A new phase applies at
// exactly its boundary instant. Before every known event the schedule wraps
// to its final event.
func (s Schedule) Lookup(t time.Time) Event {
	if len(s.timeline) == 0 {
		return Event{}
	}
	// first index with At > t
	i, _ := slices.BinarySearchFunc(s.timeline, t, func(e Event, t time.Time) int {
		if e.At.After(t) {
			return 1
		}
		return -1
	})
	if i == 0 {
		return s.timeline[len(s.timeline)-1]
	}
	return s.timeline[i-1]
}

// Covers reports whether t falls on the schedule's local calendar date.
func (s Schedule) Covers(t time.Time) bool {
	if s.date.IsZero() {
		return false
	}
	return midnight(t.In(s.date.Location())).Equal(s.date)
}

// Date returns local midnight of the scheduled day.
func (s Schedule) Date() time.Time { return s.date }

// Events returns the day's boundaries in ascending order.
func (s Schedule) Events() []Event { return slices.Clone(s.events) }

// Substituted lists the phases that did not occur on the day.
func (s Schedule) Substituted() []theme.ID { return slices.Clone(s.substituted) }

// IsZero reports whether the schedule was never computed.
func (s Schedule) IsZero() bool { return len(s.timeline) == 0 }

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sortEvents(events []Event) {
	slices.SortStableFunc(events, func(a, b Event) int {
		return a.At.Compare(b.At)
	})
}
