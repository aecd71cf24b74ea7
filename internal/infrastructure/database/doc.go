// Package database provides the SQLite store behind theme history.
//
// The connection runs in WAL mode with a busy timeout and a single open
// connection. Schema changes are versioned SQL files applied by Migrate;
// the binary embeds them through the migrations package:
//
//	db, err := database.Open(ctx, cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx, migrations.FS); err != nil {
//	    return err
//	}
//
// Every query is parameterised and the database file is created 0600.
package database
