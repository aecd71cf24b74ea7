package solar

import (
	"testing"
	"time"

	"github.com/neiam/theme-sender/internal/geolocation"
	"github.com/neiam/theme-sender/internal/theme"
)

func TestCrossing_CoversEveryPhase(t *testing.T) {
	rising := 0
	for _, id := range theme.All {
		_, r := crossing(id)
		if r {
			rising++
		}
	}
	if rising != 5 {
		t.Errorf("rising phases = %d, want 5 (dawns, sunrise, day)", rising)
	}
}

func TestPlausible(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"zero", time.Time{}, false},
		{"noon", day1.Add(12 * time.Hour), true},
		{"just after midnight next day", day1.Add(25 * time.Hour), true},
		{"late previous evening", day1.Add(-2 * time.Hour), true},
		{"far past", time.Unix(0, 0), false},
		{"two days later", day1.Add(48 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := plausible(tt.at, day1); got != tt.want {
				t.Errorf("plausible(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestSunCalculator_London(t *testing.T) {
	london := geolocation.Location{Latitude: 51.5072, Longitude: -0.1276}
	solstice := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)

	s, err := Compute(SunCalculator{}, london, solstice)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// London never reaches astronomical night around the June solstice.
	sub := s.Substituted()
	if !contains(sub, theme.AstronomicalDawn) || !contains(sub, theme.Night) {
		t.Errorf("Substituted() = %v, want AstronomicalDawn and Night", sub)
	}

	sunriseAt := find(s.Events(), theme.Sunrise)
	if sunriseAt.IsZero() || sunriseAt.Before(solstice.Add(3*time.Hour+20*time.Minute)) || sunriseAt.After(solstice.Add(4*time.Hour+10*time.Minute)) {
		t.Errorf("Sunrise = %v, want around 03:43 UTC", sunriseAt)
	}
	sunsetAt := find(s.Events(), theme.CivilDusk)
	if sunsetAt.IsZero() || sunsetAt.Before(solstice.Add(20*time.Hour)) || sunsetAt.After(solstice.Add(20*time.Hour+45*time.Minute)) {
		t.Errorf("CivilDusk = %v, want around 20:21 UTC", sunsetAt)
	}

	if got := s.Lookup(solstice.Add(13 * time.Hour)).Theme.Label(); got != "light" {
		t.Errorf("label at 13:00 UTC = %q, want light", got)
	}
}

func TestSunCalculator_Equinox(t *testing.T) {
	quito := geolocation.Location{Latitude: -0.18, Longitude: -78.47}
	equinox := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)

	s, err := Compute(SunCalculator{}, quito, equinox)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if len(s.Substituted()) != 0 {
		t.Errorf("Substituted() = %v, want none at the equator", s.Substituted())
	}
	if len(s.Events()) != len(theme.All) {
		t.Errorf("len(Events()) = %d, want %d", len(s.Events()), len(theme.All))
	}
}

func TestSunCalculator_PolarDay(t *testing.T) {
	svalbard := geolocation.Location{Latitude: 78.22, Longitude: 15.65}
	solstice := time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)

	s, err := Compute(SunCalculator{}, svalbard, solstice)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for _, clock := range []time.Duration{0, 12 * time.Hour, 23 * time.Hour} {
		if got := s.Lookup(solstice.Add(clock)).Theme; got != theme.Day {
			t.Errorf("Lookup(+%v) = %v, want Day under the midnight sun", clock, got)
		}
	}
}

func TestSunCalculator_PolarNight(t *testing.T) {
	pole := geolocation.Location{Latitude: 89.9, Longitude: 0}
	solstice := time.Date(2024, time.December, 21, 0, 0, 0, 0, time.UTC)

	s, err := Compute(SunCalculator{}, pole, solstice)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if got := s.Lookup(solstice.Add(12 * time.Hour)).Theme; got != theme.Night {
		t.Errorf("Lookup(noon) = %v, want Night", got)
	}
}

func contains(ids []theme.ID, id theme.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func find(events []Event, id theme.ID) time.Time {
	for _, e := range events {
		if e.Theme == id {
			return e.At
		}
	}
	return time.Time{}
}
