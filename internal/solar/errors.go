package solar

import "errors"

// ErrNoEventForLatitude is reported by a Calculator when the sun never reaches
// a phase's elevation on the requested date, as happens near the poles.
// Compute substitutes such phases instead of failing.
var ErrNoEventForLatitude = errors.New("solar: no event at this latitude on this date")
