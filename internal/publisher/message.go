package publisher

import (
	"encoding/json"
	"time"

	"github.com/neiam/theme-sender/internal/override"
	"github.com/neiam/theme-sender/internal/resolver"
	"github.com/neiam/theme-sender/internal/solar"
)

// Message is the JSON document published on the theme topic.
// Data is when the message was produced, not when the phase began.
type Message struct {
	Theme string    `json:"theme"`
	Data  time.Time `json:"data"`
}

// NewMessage stamps theme with now in UTC.
func NewMessage(theme string, now time.Time) Message {
	return Message{Theme: theme, Data: now.UTC()}
}

// Encode serialises the message.
func (m Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Publication describes one completed publish cycle for observers.
type Publication struct {
	Message Message
	Source  resolver.Source
	Phase   solar.Event
	Changed bool
	Expired bool
	// Command is the override command consumed this cycle, if any.
	Command *override.Command
	// Err is the transport error, nil when the broker accepted the message.
	Err error
}
