// Package history keeps a SQLite log of theme transitions and override
// commands for the status API.
package history
