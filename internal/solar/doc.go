// Package solar turns a location and a calendar date into the day's theme
// phase boundaries.
//
// The astronomy sits behind Calculator; SunCalculator uses go-sunrise.
// Schedules are pure values: computing one twice for the same inputs yields
// the same events.
//
// Polar dates are handled by substitution, never by failure. A phase the sun
// never reaches is dropped and the previous boundary keeps governing; a day
// with no boundaries at all becomes a single midnight event themed by the
// noon sun elevation (Day under the midnight sun, Night in polar night).
package solar
