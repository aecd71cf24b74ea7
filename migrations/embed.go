// Package migrations embeds the theme history schema.
package migrations

import "embed"

// FS holds the versioned SQL files applied by database.DB.Migrate.
//
//go:embed *.sql
var FS embed.FS
