package config

import (
	"os"

	"github.com/spf13/pflag"
)

// ConfigPathEnv names the environment variable that selects a YAML config file
// when --config is not given.
const ConfigPathEnv = "THEME_SENDER_CONFIG"

// Flags holds command-line overrides bound to a pflag.FlagSet.
// Only flags the user actually set are applied, so unset flags never
// clobber values from the file or environment.
type Flags struct {
	fs *pflag.FlagSet

	configPath string

	host          string
	port          int
	username      string
	password      string
	clientID      string
	topic         string
	overrideTopic string
	revertTopic   string

	daemon    bool
	interval  int
	latitude  float64
	longitude float64
	timezone  string
	logLevel  string
	logFormat string
}

// BindMQTTFlags registers the connection and topic flags shared by every binary.
func BindMQTTFlags(fs *pflag.FlagSet) *Flags {
	d := Default()
	f := &Flags{fs: fs}

	fs.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file (env "+ConfigPathEnv+")")
	fs.StringVar(&f.host, "mqtt-host", d.MQTT.Broker.Host, "MQTT broker host or URI (env MQTT_HOST)")
	fs.IntVar(&f.port, "mqtt-port", d.MQTT.Broker.Port, "MQTT broker port (env MQTT_PORT)")
	fs.StringVar(&f.username, "mqtt-username", "", "MQTT username (env MQTT_USERNAME)")
	fs.StringVar(&f.password, "mqtt-password", "", "MQTT password (env MQTT_PASSWORD)")
	fs.StringVar(&f.clientID, "client-id", d.MQTT.Broker.ClientID, "MQTT client ID (env MQTT_CLIENT_ID)")
	fs.StringVar(&f.topic, "topic", d.MQTT.Topics.Theme, "theme topic (env MQTT_TOPIC)")
	fs.StringVar(&f.overrideTopic, "override-topic", d.MQTT.Topics.Override, "override topic (env MQTT_OVERRIDE_TOPIC)")
	fs.StringVar(&f.revertTopic, "revert-topic", d.MQTT.Topics.Revert, "revert topic (env MQTT_REVERT_TOPIC)")

	return f
}

// BindFlags registers the full sender flag set.
func BindFlags(fs *pflag.FlagSet) *Flags {
	d := Default()
	f := BindMQTTFlags(fs)
	f.daemon = true

	fs.IntVarP(&f.interval, "interval", "i", d.Publish.IntervalSecs, "publish interval in seconds (env PUBLISH_INTERVAL_SECS)")
	fs.Float64Var(&f.latitude, "latitude", 0, "site latitude, skips IP geolocation when set with --longitude")
	fs.Float64Var(&f.longitude, "longitude", 0, "site longitude, skips IP geolocation when set with --latitude")
	fs.StringVar(&f.timezone, "timezone", d.Site.Timezone, "IANA time zone used for the local calendar day")
	fs.StringVar(&f.logLevel, "log-level", d.Logging.Level, "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", d.Logging.Format, "log format: json or text")

	return f
}

// ConfigPath returns the YAML config path from --config or the environment.
func (f *Flags) ConfigPath() string {
	if f.configPath != "" {
		return f.configPath
	}
	return os.Getenv(ConfigPathEnv)
}

// Apply copies explicitly set flags onto cfg.
func (f *Flags) Apply(cfg *Config) {
	set := f.fs.Changed

	if set("mqtt-host") {
		cfg.MQTT.Broker.Host = f.host
	}
	if set("mqtt-port") {
		cfg.MQTT.Broker.Port = f.port
	}
	if set("mqtt-username") {
		cfg.MQTT.Auth.Username = f.username
	}
	if set("mqtt-password") {
		cfg.MQTT.Auth.Password = f.password
	}
	if set("client-id") {
		cfg.MQTT.Broker.ClientID = f.clientID
	}
	if set("topic") {
		cfg.MQTT.Topics.Theme = f.topic
	}
	if set("override-topic") {
		cfg.MQTT.Topics.Override = f.overrideTopic
	}
	if set("revert-topic") {
		cfg.MQTT.Topics.Revert = f.revertTopic
	}

	if !f.daemon {
		return
	}

	if set("interval") {
		cfg.Publish.IntervalSecs = f.interval
	}
	if set("latitude") || set("longitude") {
		loc := LocationConfig{Latitude: f.latitude, Longitude: f.longitude}
		if cfg.Site.Location != nil {
			if !set("latitude") {
				loc.Latitude = cfg.Site.Location.Latitude
			}
			if !set("longitude") {
				loc.Longitude = cfg.Site.Location.Longitude
			}
		}
		cfg.Site.Location = &loc
	}
	if set("timezone") {
		cfg.Site.Timezone = f.timezone
	}
	if set("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if set("log-format") {
		cfg.Logging.Format = f.logFormat
	}
}
