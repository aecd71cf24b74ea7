package theme

import (
	"fmt"
	"strings"
)

// ID identifies one phase of the solar day. The set is closed: every switch
// over ID in this module is exhaustive.
type ID int

// Phases in the order they occur over a normal day.
const (
	Night ID = iota
	AstronomicalDawn
	NauticalDawn
	CivilDawn
	Sunrise
	Day
	CivilDusk
	NauticalDusk
	AstronomicalDusk
)

// All lists every ID in day order.
var All = []ID{
	Night,
	AstronomicalDawn,
	NauticalDawn,
	CivilDawn,
	Sunrise,
	Day,
	CivilDusk,
	NauticalDusk,
	AstronomicalDusk,
}

// Label returns the theme value published for the phase.
// Several phases share a label; Sunrise and Day both publish "light".
func (id ID) Label() string {
	switch id {
	case Night:
		return "dark"
	case AstronomicalDawn:
		return "dark-dimmed"
	case NauticalDawn:
		return "dark-soft"
	case CivilDawn:
		return "light-soft"
	case Sunrise:
		return "light"
	case Day:
		return "light"
	case CivilDusk:
		return "light-soft"
	case NauticalDusk:
		return "dark-soft"
	case AstronomicalDusk:
		return "dark-dimmed"
	default:
		panic(fmt.Sprintf("theme: unknown ID %d", int(id)))
	}
}

// Description is a human-readable account of the sky during the phase.
func (id ID) Description() string {
	switch id {
	case Night:
		return "Full night - stars visible"
	case AstronomicalDawn:
		return "Astronomical dawn - faint light appears in sky"
	case NauticalDawn:
		return "Nautical dawn - horizon becomes visible"
	case CivilDawn:
		return "Civil dawn - enough light for outdoor activities"
	case Sunrise:
		return "Sunrise - sun crosses the horizon"
	case Day:
		return "Day - full daylight"
	case CivilDusk:
		return "Civil dusk - sun has set, still light outside"
	case NauticalDusk:
		return "Nautical dusk - horizon fading"
	case AstronomicalDusk:
		return "Astronomical dusk - last light leaves the sky"
	default:
		panic(fmt.Sprintf("theme: unknown ID %d", int(id)))
	}
}

// String returns the phase name, e.g. "CivilDawn".
func (id ID) String() string {
	switch id {
	case Night:
		return "Night"
	case AstronomicalDawn:
		return "AstronomicalDawn"
	case NauticalDawn:
		return "NauticalDawn"
	case CivilDawn:
		return "CivilDawn"
	case Sunrise:
		return "Sunrise"
	case Day:
		return "Day"
	case CivilDusk:
		return "CivilDusk"
	case NauticalDusk:
		return "NauticalDusk"
	case AstronomicalDusk:
		return "AstronomicalDusk"
	default:
		return fmt.Sprintf("ID(%d)", int(id))
	}
}

// Valid reports whether id is one of the defined phases.
func (id ID) Valid() bool {
	return id >= Night && id <= AstronomicalDusk
}

// Parse maps a phase name back to its ID, ignoring case.
func Parse(name string) (ID, error) {
	for _, id := range All {
		if strings.EqualFold(id.String(), name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("theme: unknown phase %q", name)
}

// MarshalText encodes the phase by name so JSON and logs stay readable.
func (id ID) MarshalText() ([]byte, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("theme: unknown ID %d", int(id))
	}
	return []byte(id.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
