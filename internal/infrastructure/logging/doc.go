// Package logging configures log/slog for the theme sender binaries.
//
// Every entry carries service and version. Subsystems take a child logger
// from Component so their lines can be filtered:
//
//	log := logging.New(cfg.Logging, "theme-sender", version)
//	log.Component("publisher").Info("theme changed", "theme", "light")
//
// Format is "json" (default) or "text"; output is stdout or stderr.
// MQTT passwords and the JWT secret must never be logged.
package logging
