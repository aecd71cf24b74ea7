package mqtt

import "github.com/neiam/theme-sender/internal/infrastructure/config"

// statusSuffix is appended to the theme topic for the sender's online/offline status.
const statusSuffix = "/status"

// Topics names the topics of the theme protocol for one deployment.
//
//	topics := mqtt.NewTopics(cfg.MQTT.Topics)
//	topics.Theme()  // "neiam/sync/theme"
//	topics.Status() // "neiam/sync/theme/status"
type Topics struct {
	theme    string
	override string
	revert   string
}

// NewTopics builds the topic set from configuration.
func NewTopics(cfg config.MQTTTopicsConfig) Topics {
	return Topics{
		theme:    cfg.Theme,
		override: cfg.Override,
		revert:   cfg.Revert,
	}
}

// Theme is where the current theme JSON is published.
func (t Topics) Theme() string { return t.theme }

// Override carries a raw override value; the payload is used verbatim.
func (t Topics) Override() string { return t.override }

// Revert carries revert requests; any payload counts.
func (t Topics) Revert() string { return t.revert }

// Status carries the retained online/offline status of the sender.
func (t Topics) Status() string { return t.theme + statusSuffix }

// RevertPayload is the conventional body published on the revert topic.
const RevertPayload = "revert"
