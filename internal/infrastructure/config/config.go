package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when configuration values cannot be parsed or fail validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Default topics shared by the sender and the override CLI.
const (
	DefaultThemeTopic    = "neiam/sync/theme"
	DefaultOverrideTopic = "neiam/sync/theme/override"
	DefaultRevertTopic   = "neiam/sync/theme/revert"
)

// DefaultGeolocationURL is the IP geolocation endpoint used when no static location is configured.
const DefaultGeolocationURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// Config is the root configuration structure for the theme sender.
// Values come from defaults, an optional YAML file, environment variables and flags.
type Config struct {
	Site        SiteConfig        `yaml:"site"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Publish     PublishConfig     `yaml:"publish"`
	Geolocation GeolocationConfig `yaml:"geolocation"`
	Database    DatabaseConfig    `yaml:"database"`
	API         APIConfig         `yaml:"api"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	InfluxDB    InfluxDBConfig    `yaml:"influxdb"`
	Logging     LoggingConfig     `yaml:"logging"`
	Security    SecurityConfig    `yaml:"security"`
}

// SiteConfig describes where the sender runs.
type SiteConfig struct {
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`

	// Location pins the coordinates used for solar calculations.
	// When nil the location is looked up via IP geolocation at startup.
	Location *LocationConfig `yaml:"location,omitempty"`
}

// LocationConfig contains geographic coordinates for astronomical calculations.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	Topics    MQTTTopicsConfig    `yaml:"topics"`
	QoS       int                 `yaml:"qos"`
	Retain    bool                `yaml:"retain"`
	KeepAlive int                 `yaml:"keep_alive"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
// Host may be a bare hostname or a full URI such as "tcp://broker:1883".
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTTopicsConfig names the three topics of the theme protocol.
type MQTTTopicsConfig struct {
	Theme    string `yaml:"theme"`
	Override string `yaml:"override"`
	Revert   string `yaml:"revert"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// PublishConfig controls the publish loop.
type PublishConfig struct {
	IntervalSecs       int  `yaml:"interval_secs"`
	ImmediateOnCommand bool `yaml:"immediate_on_command"`
}

// GeolocationConfig configures the IP geolocation lookup.
type GeolocationConfig struct {
	URL     string `yaml:"url"`
	Timeout int    `yaml:"timeout"`
}

// DatabaseConfig contains SQLite theme history settings.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// APIConfig contains HTTP status API settings.
type APIConfig struct {
	Enabled  bool             `yaml:"enabled"`
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings in seconds.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket stream settings.
type WebSocketConfig struct {
	MaxMessageSize int `yaml:"max_message_size"`
	PingInterval   int `yaml:"ping_interval"`
	PongTimeout    int `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SecurityConfig contains security settings.
type SecurityConfig struct {
	JWT JWTConfig `yaml:"jwt"`
}

// JWTConfig contains the HS256 secret guarding the status API.
// An empty secret leaves the API unauthenticated.
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// Load builds the configuration.
//
// The loading order is:
//  1. Default values
//  2. YAML file values, when path is not empty
//  3. Environment variables
//  4. Command-line flags that were explicitly set
//
// Parameters:
//   - path: Path to the YAML configuration file, or "" for none
//   - flags: Bound command-line flags, may be nil
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If the file cannot be read or parsed, or validation fails
func Load(path string, flags *Flags) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config file: %w", ErrInvalidConfig, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if flags != nil {
		flags.Apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with the stock defaults.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Name:     "theme-sender",
			Timezone: "Local",
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "theme-sender",
			},
			Topics: MQTTTopicsConfig{
				Theme:    DefaultThemeTopic,
				Override: DefaultOverrideTopic,
				Revert:   DefaultRevertTopic,
			},
			QoS:       1,
			KeepAlive: 20,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		Publish: PublishConfig{
			IntervalSecs:       300,
			ImmediateOnCommand: true,
		},
		Geolocation: GeolocationConfig{
			URL:     DefaultGeolocationURL,
			Timeout: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/theme-sender.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "neiam",
			Bucket:        "theme",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// The MQTT_* and PUBLISH_INTERVAL_SECS names match existing deployments;
// everything else uses the THEME_SENDER_ prefix.
func applyEnvOverrides(cfg *Config) error {
	var errs []string

	// MQTT
	if v := os.Getenv("MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("MQTT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("MQTT_PORT %q is not a number", v))
		} else {
			cfg.MQTT.Broker.Port = port
		}
	}
	if v := os.Getenv("MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("MQTT_CLIENT_ID"); v != "" {
		cfg.MQTT.Broker.ClientID = v
	}
	if v := os.Getenv("MQTT_TOPIC"); v != "" {
		cfg.MQTT.Topics.Theme = v
	}
	if v := os.Getenv("MQTT_OVERRIDE_TOPIC"); v != "" {
		cfg.MQTT.Topics.Override = v
	}
	if v := os.Getenv("MQTT_REVERT_TOPIC"); v != "" {
		cfg.MQTT.Topics.Revert = v
	}

	// Publish
	if v := os.Getenv("PUBLISH_INTERVAL_SECS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("PUBLISH_INTERVAL_SECS %q is not a number", v))
		} else {
			cfg.Publish.IntervalSecs = secs
		}
	}

	// Site - both coordinates must be given together
	lat, lon := os.Getenv("THEME_SENDER_LATITUDE"), os.Getenv("THEME_SENDER_LONGITUDE")
	if lat != "" || lon != "" {
		loc, err := parseLocation(lat, lon)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			cfg.Site.Location = loc
		}
	}
	if v := os.Getenv("THEME_SENDER_TIMEZONE"); v != "" {
		cfg.Site.Timezone = v
	}

	// Logging
	if v := os.Getenv("THEME_SENDER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("THEME_SENDER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Database
	if v := os.Getenv("THEME_SENDER_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// InfluxDB
	if v := os.Getenv("THEME_SENDER_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Security
	if v := os.Getenv("THEME_SENDER_JWT_SECRET"); v != "" {
		cfg.Security.JWT.Secret = v
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

func parseLocation(lat, lon string) (*LocationConfig, error) {
	if lat == "" || lon == "" {
		return nil, errors.New("THEME_SENDER_LATITUDE and THEME_SENDER_LONGITUDE must be set together")
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, fmt.Errorf("THEME_SENDER_LATITUDE %q is not a number", lat)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return nil, fmt.Errorf("THEME_SENDER_LONGITUDE %q is not a number", lon)
	}
	return &LocationConfig{Latitude: la, Longitude: lo}, nil
}

// Validate checks the configuration for errors.
//
// Every problem is collected so a single run reports all of them.
//
// Returns:
//   - error: wrapping ErrInvalidConfig, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Site
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Sprintf("site.timezone %q is not a known time zone", c.Site.Timezone))
	}
	if loc := c.Site.Location; loc != nil {
		if math.IsNaN(loc.Latitude) || loc.Latitude < -90 || loc.Latitude > 90 {
			errs = append(errs, "site.location.latitude must be between -90 and 90")
		}
		if math.IsNaN(loc.Longitude) || loc.Longitude < -180 || loc.Longitude > 180 {
			errs = append(errs, "site.location.longitude must be between -180 and 180")
		}
	}

	// MQTT
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if !strings.Contains(c.MQTT.Broker.Host, "://") && (c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535) {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	topics := c.MQTT.Topics
	if topics.Theme == "" || topics.Override == "" || topics.Revert == "" {
		errs = append(errs, "mqtt.topics.theme, override and revert are all required")
	} else if topics.Override == topics.Revert {
		errs = append(errs, "mqtt.topics.override and mqtt.topics.revert must differ")
	}

	// Publish
	if c.Publish.IntervalSecs < 1 {
		errs = append(errs, "publish.interval_secs must be at least 1")
	}

	// Geolocation is only consulted without a static location
	if c.Site.Location == nil && c.Geolocation.URL == "" {
		errs = append(errs, "geolocation.url is required when site.location is not set")
	}

	// Database
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when the database is enabled")
	}

	// API
	if c.API.Enabled && (c.API.Port < 1 || c.API.Port > 65535) {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	// Security - a configured JWT secret must be strong enough to resist forgery
	const minJWTSecretLength = 32
	if s := c.Security.JWT.Secret; s != "" && len(s) < minJWTSecretLength {
		errs = append(errs, "security.jwt.secret must be at least 32 characters")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}

	return nil
}

// Location resolves the configured time zone. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Site.Timezone == "" || c.Site.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Site.Timezone)
}

// PublishInterval returns the publish tick period as a Duration.
func (c *Config) PublishInterval() time.Duration {
	return time.Duration(c.Publish.IntervalSecs) * time.Second
}

// ReadTimeout returns the read timeout as a Duration.
func (t APITimeoutConfig) ReadTimeout() time.Duration {
	return time.Duration(t.Read) * time.Second
}

// WriteTimeout returns the write timeout as a Duration.
func (t APITimeoutConfig) WriteTimeout() time.Duration {
	return time.Duration(t.Write) * time.Second
}

// IdleTimeout returns the keep-alive idle timeout as a Duration.
func (t APITimeoutConfig) IdleTimeout() time.Duration {
	return time.Duration(t.Idle) * time.Second
}
