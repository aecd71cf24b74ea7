// Package publisher drives the theme sender: it publishes the resolved
// theme once at startup and then on a fixed interval.
//
// Each cycle drains the override mailbox, asks the resolver for the theme,
// publishes {"theme": ..., "data": <RFC 3339 now>} and tells observers
// (history, telemetry, the live API) what happened.
package publisher
