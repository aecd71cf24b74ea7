package geolocation

import (
	"context"
	"fmt"
	"math"
)

// Location is a point on the Earth in decimal degrees.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate rejects NaN and out-of-range coordinates.
func (l Location) Validate() error {
	if math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrUnavailable, l.Latitude)
	}
	if math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrUnavailable, l.Longitude)
	}
	return nil
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f,%.4f", l.Latitude, l.Longitude)
}

// Provider resolves the location of the host.
type Provider interface {
	Locate(ctx context.Context) (Location, error)
}

// Static is a Provider that always returns a configured location.
type Static Location

// Locate returns the static location after validating it.
func (s Static) Locate(context.Context) (Location, error) {
	loc := Location(s)
	if err := loc.Validate(); err != nil {
		return Location{}, err
	}
	return loc, nil
}
