package solar

import (
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"

	"github.com/neiam/theme-sender/internal/geolocation"
	"github.com/neiam/theme-sender/internal/theme"
)

// SunCalculator computes phase boundaries with go-sunrise.
type SunCalculator struct{}

// PhaseStart implements Calculator.
func (SunCalculator) PhaseStart(loc geolocation.Location, day time.Time, id theme.ID) (time.Time, error) {
	elevation, rising := crossing(id)
	y, m, d := day.Date()

	var morning, evening time.Time
	if elevation == horizonElevation {
		morning, evening = sunrise.SunriseSunset(loc.Latitude, loc.Longitude, y, m, d)
	} else {
		morning, evening = sunrise.TimeOfElevation(loc.Latitude, loc.Longitude, elevation, y, m, d)
	}

	at := evening
	if rising {
		at = morning
	}
	if !plausible(at, midnight(day)) {
		return time.Time{}, fmt.Errorf("%w: %v at %v", ErrNoEventForLatitude, id, loc)
	}
	return at.In(day.Location()), nil
}

// Elevation implements Calculator.
func (SunCalculator) Elevation(loc geolocation.Location, t time.Time) float64 {
	return sunrise.Elevation(loc.Latitude, loc.Longitude, t)
}

// crossing maps a phase to the sun elevation that starts it and whether the
// sun is rising through it.
func crossing(id theme.ID) (elevation float64, rising bool) {
	switch id {
	case theme.AstronomicalDawn:
		return astronomicalElevation, true
	case theme.NauticalDawn:
		return nauticalElevation, true
	case theme.CivilDawn:
		return civilElevation, true
	case theme.Sunrise:
		return horizonElevation, true
	case theme.Day:
		return dayElevation, true
	case theme.CivilDusk:
		return horizonElevation, false
	case theme.NauticalDusk:
		return civilElevation, false
	case theme.AstronomicalDusk:
		return nauticalElevation, false
	case theme.Night:
		return astronomicalElevation, false
	default:
		panic(fmt.Sprintf("solar: unknown phase %d", int(id)))
	}
}

// plausible rejects the zero time and the far-off instants the library
// produces when an elevation is never reached.
func plausible(at, day time.Time) bool {
	if at.IsZero() {
		return false
	}
	return !at.Before(day.Add(-6*time.Hour)) && at.Before(day.Add(30*time.Hour))
}
