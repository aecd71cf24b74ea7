package override

import "sync"

// Mailbox is a single-slot, latest-wins handoff between exactly one producer
// (the listener) and one consumer (the publish loop). Neither side ever blocks:
// a push overwrites an unread command and a drain of an empty mailbox returns
// immediately.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Mailbox struct {
	mu      sync.Mutex
	pending *Command
	ready   chan struct{}
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ready: make(chan struct{}, 1)}
}

// Push stores cmd, replacing any command not yet drained.
func (m *Mailbox) Push(cmd Command) {
	m.mu.Lock()
	m.pending = &cmd
	m.mu.Unlock()

	// Coalesced wake-up; a signal already waiting covers this push too.
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Drain removes and returns the pending command, if any.
func (m *Mailbox) Drain() (Command, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return Command{}, false
	}
	cmd := *m.pending
	m.pending = nil
	return cmd, true
}

// Ready delivers a signal after a push. It may fire once for several pushes,
// or fire when the command was already drained; consumers just drain.
func (m *Mailbox) Ready() <-chan struct{} {
	return m.ready
}
