package resolver

import (
	"time"

	"github.com/neiam/theme-sender/internal/geolocation"
	"github.com/neiam/theme-sender/internal/solar"
	"github.com/neiam/theme-sender/internal/theme"
)

var testLocation = geolocation.Location{Latitude: 45, Longitude: 7}

// fixedCalculator starts each phase at the same clock time every day.
type fixedCalculator struct {
	polar bool
}

var fixedTimes = map[theme.ID]time.Duration{
	theme.AstronomicalDawn: 3 * time.Hour,
	theme.NauticalDawn:     4 * time.Hour,
	theme.CivilDawn:        5 * time.Hour,
	theme.Sunrise:          6 * time.Hour,
	theme.Day:              8 * time.Hour,
	theme.CivilDusk:        18 * time.Hour,
	theme.NauticalDusk:     19 * time.Hour,
	theme.AstronomicalDusk: 20 * time.Hour,
	theme.Night:            21 * time.Hour,
}

func (c fixedCalculator) PhaseStart(_ geolocation.Location, day time.Time, id theme.ID) (time.Time, error) {
	if c.polar {
		return time.Time{}, solar.ErrNoEventForLatitude
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(fixedTimes[id]), nil
}

func (c fixedCalculator) Elevation(geolocation.Location, time.Time) float64 {
	return 20
}
