package override

import (
	"context"
	"fmt"

	"github.com/neiam/theme-sender/internal/infrastructure/mqtt"
)

// Subscriber is the part of the MQTT client the listener needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Logger is the logging surface used by the listener.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Listener turns messages on the override and revert topics into commands in
// a Mailbox. It shares nothing else with the publish loop.
type Listener struct {
	sub           Subscriber
	mailbox       *Mailbox
	overrideTopic string
	revertTopic   string
	qos           byte
	logger        Logger
}

// NewListener creates a listener for the two topics.
func NewListener(sub Subscriber, mailbox *Mailbox, overrideTopic, revertTopic string, qos byte) *Listener {
	return &Listener{
		sub:           sub,
		mailbox:       mailbox,
		overrideTopic: overrideTopic,
		revertTopic:   revertTopic,
		qos:           qos,
		logger:        nopLogger{},
	}
}

// SetLogger replaces the no-op logger.
func (l *Listener) SetLogger(logger Logger) {
	if logger != nil {
		l.logger = logger
	}
}

// Run subscribes to both topics and blocks until ctx is cancelled.
// Reconnects are handled by the client, which restores the subscriptions.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.sub.Subscribe(l.overrideTopic, l.qos, l.handleOverride); err != nil {
		return fmt.Errorf("subscribing to override topic: %w", err)
	}
	if err := l.sub.Subscribe(l.revertTopic, l.qos, l.handleRevert); err != nil {
		_ = l.sub.Unsubscribe(l.overrideTopic)
		return fmt.Errorf("subscribing to revert topic: %w", err)
	}

	l.logger.Info("listening for overrides",
		"override_topic", l.overrideTopic,
		"revert_topic", l.revertTopic,
	)

	<-ctx.Done()

	for _, topic := range []string{l.overrideTopic, l.revertTopic} {
		if err := l.sub.Unsubscribe(topic); err != nil {
			l.logger.Warn("unsubscribe failed", "topic", topic, "error", err)
		}
	}
	return nil
}

// handleOverride uses the payload verbatim as the override value.
func (l *Listener) handleOverride(_ string, payload []byte) error {
	value := string(payload)
	l.logger.Info("override received", "value", value)
	l.mailbox.Push(Set(value))
	return nil
}

// handleRevert ignores the payload; any message is a revert.
func (l *Listener) handleRevert(_ string, _ []byte) error {
	l.logger.Info("revert received")
	l.mailbox.Push(Revert())
	return nil
}
