// Package config handles loading and validating theme sender configuration.
//
// This package manages:
//   - Stock defaults matching the theme protocol topics
//   - An optional YAML file
//   - Environment variable overrides (MQTT_*, PUBLISH_INTERVAL_SECS, THEME_SENDER_*)
//   - Command-line flags bound with pflag, applied only when explicitly set
//   - Validation that reports every problem at once
//
// Security Considerations:
//   - MQTT passwords and the JWT secret should come from the environment
//   - The config file should have restricted permissions (0600)
//
// Usage:
//
//	fs := pflag.NewFlagSet("themesender", pflag.ContinueOnError)
//	flags := config.BindFlags(fs)
//	_ = fs.Parse(os.Args[1:])
//	cfg, err := config.Load(flags.ConfigPath(), flags)
package config
