package publisher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neiam/theme-sender/internal/override"
	"github.com/neiam/theme-sender/internal/resolver"
)

// State is the publish loop state.
type State int32

const (
	StateIdle State = iota
	StatePublishing
)

func (s State) String() string {
	if s == StatePublishing {
		return "publishing"
	}
	return "idle"
}

// defaultInterval applies when Config.Interval is zero.
const defaultInterval = 300 * time.Second

// Publisher is the transport the loop hands messages to.
// This is typically implemented by the MQTT client.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Decider resolves the theme for an instant. *resolver.Resolver implements it.
type Decider interface {
	Decide(now time.Time, pending *override.Command) resolver.Decision
}

// Observer is told about every publish cycle. Observers run on the loop
// goroutine and must return quickly.
type Observer interface {
	ThemePublished(ctx context.Context, p Publication)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, p Publication)

// ThemePublished calls f.
func (f ObserverFunc) ThemePublished(ctx context.Context, p Publication) { f(ctx, p) }

// Logger is the logging surface used by the loop.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}

// Config holds the loop's collaborators and settings.
type Config struct {
	Topic    string
	QoS      byte
	Retained bool

	// Interval between scheduled cycles. Default: 300 seconds.
	Interval time.Duration

	// ImmediateOnCommand runs a cycle as soon as a command is pushed
	// instead of waiting for the next tick.
	ImmediateOnCommand bool

	Resolver  Decider
	Mailbox   *override.Mailbox
	Publisher Publisher

	// Clock returns the current time. Default: time.Now.
	Clock func() time.Time
}

// Loop publishes the resolved theme once at start and then on every tick.
// A failed publish is logged and the loop carries on; the next tick is the retry.
type Loop struct {
	cfg   Config
	state atomic.Int32
	count atomic.Uint64

	observers   []Observer
	observersMu sync.RWMutex

	logger   Logger
	loggerMu sync.RWMutex
}

// New creates a loop. Call Run to start it.
func New(cfg Config) *Loop {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Mailbox == nil {
		cfg.Mailbox = override.NewMailbox()
	}
	return &Loop{cfg: cfg, logger: nopLogger{}}
}

// SetLogger sets the logger for this loop.
func (l *Loop) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	l.loggerMu.Lock()
	l.logger = logger
	l.loggerMu.Unlock()
}

func (l *Loop) getLogger() Logger {
	l.loggerMu.RLock()
	defer l.loggerMu.RUnlock()
	return l.logger
}

// AddObserver registers an observer for subsequent cycles.
func (l *Loop) AddObserver(o Observer) {
	l.observersMu.Lock()
	l.observers = append(l.observers, o)
	l.observersMu.Unlock()
}

// State reports whether a cycle is in progress.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// Cycles returns how many cycles have completed.
func (l *Loop) Cycles() uint64 {
	return l.count.Load()
}

// Run publishes immediately, then once per interval until ctx is cancelled.
// It always returns nil: transport failures never end the loop.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	l.getLogger().Info("publish loop started",
		"topic", l.cfg.Topic,
		"interval", l.cfg.Interval.String(),
	)

	l.PublishNow(ctx)

	var wake <-chan struct{}
	if l.cfg.ImmediateOnCommand {
		wake = l.cfg.Mailbox.Ready()
	}

	for {
		select {
		case <-ctx.Done():
			l.getLogger().Info("publish loop stopped", "cycles", l.Cycles())
			return nil
		case <-ticker.C:
			l.PublishNow(ctx)
		case <-wake:
			l.PublishNow(ctx)
		}
	}
}

// PublishNow runs one cycle: drain, resolve, publish, notify observers.
// State is Publishing from the drain until the transport returns.
func (l *Loop) PublishNow(ctx context.Context) Publication {
	logger := l.getLogger()

	l.state.Store(int32(StatePublishing))

	var pending *override.Command
	if cmd, ok := l.cfg.Mailbox.Drain(); ok {
		pending = &cmd
	}

	now := l.cfg.Clock()
	d := l.cfg.Resolver.Decide(now, pending)
	msg := NewMessage(d.Label, now)

	pub := Publication{
		Message: msg,
		Source:  d.Source,
		Phase:   d.Phase,
		Changed: d.Changed,
		Expired: d.Expired,
		Command: pending,
	}

	pub.Err = l.publish(msg)
	l.state.Store(int32(StateIdle))
	l.count.Add(1)

	switch {
	case pub.Err != nil:
		logger.Warn("theme publish failed",
			"theme", msg.Theme,
			"topic", l.cfg.Topic,
			"error", pub.Err,
		)
	case d.Changed:
		logger.Info("theme changed",
			"theme", msg.Theme,
			"source", string(d.Source),
			"phase", d.Phase.Theme.String(),
		)
	default:
		logger.Debug("republishing theme",
			"theme", msg.Theme,
			"source", string(d.Source),
		)
	}

	l.observersMu.RLock()
	observers := l.observers
	l.observersMu.RUnlock()
	for _, o := range observers {
		o.ThemePublished(ctx, pub)
	}

	return pub
}

func (l *Loop) publish(msg Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return err
	}
	return l.cfg.Publisher.Publish(l.cfg.Topic, payload, l.cfg.QoS, l.cfg.Retained)
}
