package geolocation

import "errors"

// ErrUnavailable is returned when no usable location can be determined.
// It is fatal at startup: solar times cannot be computed without a location.
var ErrUnavailable = errors.New("geolocation: location unavailable")
