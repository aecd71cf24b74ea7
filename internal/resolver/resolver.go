package resolver

import (
	"sync"
	"time"

	"github.com/neiam/theme-sender/internal/override"
	"github.com/neiam/theme-sender/internal/solar"
)

// Source says where a published value came from.
type Source string

const (
	SourceSolar    Source = "solar"
	SourceOverride Source = "override"
)

// ScheduleFunc computes the schedule for the local calendar date of its argument.
type ScheduleFunc func(date time.Time) (solar.Schedule, error)

// Logger is the logging surface used by the resolver.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any) {}
func (nopLogger) Warn(string, ...any) {}

// Override is an active operator override.
type Override struct {
	Value     string      `json:"value"`
	AppliedAt time.Time   `json:"applied_at"`
	Phase     solar.Event `json:"phase"`
}

// Decision is the outcome of one resolution.
type Decision struct {
	Label  string
	Source Source
	Phase  solar.Event
	// Changed is true when Label differs from the previous decision's label.
	Changed bool
	// Expired is true when an override was dropped at a solar boundary.
	Expired bool
}

// Snapshot is a read-only copy of the resolver state.
type Snapshot struct {
	Schedule    solar.Schedule
	LastEmitted string
	HasEmitted  bool
	Source      Source
	Phase       solar.Event
	Override    *Override
}

// Resolver decides which theme to publish. It owns the current schedule and
// the override state; both are touched only under its mutex.
//
// An override lives until the solar phase changes relative to the phase
// active when it was applied, or until a revert, whichever comes first.
// Phases are compared by theme ID rather than label because neighbouring
// phases can share a label (Sunrise and Day are both "light"). The boundary
// instant is ignored: a polar day or night starts a new midnight event each
// day without changing phase.
type Resolver struct {
	mu       sync.RWMutex
	compute  ScheduleFunc
	location *time.Location
	schedule solar.Schedule

	lastEmitted string
	hasEmitted  bool
	lastSource  Source
	lastPhase   solar.Event
	override    *Override

	logger Logger
}

// New creates a resolver starting from initial. compute is called lazily on
// the first resolution after the local date changes; when nil the initial
// schedule is used forever. Dates are taken in location.
func New(initial solar.Schedule, compute ScheduleFunc, location *time.Location) *Resolver {
	if location == nil {
		location = time.Local
	}
	return &Resolver{
		compute:  compute,
		location: location,
		schedule: initial,
		logger:   nopLogger{},
	}
}

// SetLogger replaces the no-op logger.
func (r *Resolver) SetLogger(logger Logger) {
	if logger == nil {
		return
	}
	r.mu.Lock()
	r.logger = logger
	r.mu.Unlock()
}

// Resolve applies pending, if any, and returns the theme value to publish at now.
func (r *Resolver) Resolve(now time.Time, pending *override.Command) string {
	return r.Decide(now, pending).Label
}

// Decide is Resolve with the reasoning attached.
func (r *Resolver) Decide(now time.Time, pending *override.Command) Decision {
	now = now.In(r.location)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.refreshSchedule(now)
	current := r.schedule.Lookup(now)

	if pending != nil {
		switch pending.Kind {
		case override.KindRevert:
			if r.override != nil {
				r.logger.Info("override reverted", "value", r.override.Value)
			}
			r.override = nil
		case override.KindSet:
			r.override = &Override{Value: pending.Value, AppliedAt: now, Phase: current}
			r.logger.Info("override applied",
				"value", pending.Value,
				"until_phase_after", current.Theme.String(),
			)
		}
	}

	d := Decision{
		Label:  current.Theme.Label(),
		Source: SourceSolar,
		Phase:  current,
	}

	if r.override != nil {
		if samePhase(current, r.override.Phase) {
			d.Label = r.override.Value
			d.Source = SourceOverride
		} else {
			r.logger.Info("override expired at solar boundary",
				"value", r.override.Value,
				"phase", current.Theme.String(),
			)
			r.override = nil
			d.Expired = true
		}
	}

	d.Changed = !r.hasEmitted || d.Label != r.lastEmitted
	r.lastEmitted = d.Label
	r.hasEmitted = true
	r.lastSource = d.Source
	r.lastPhase = current

	return d
}

// refreshSchedule recomputes the schedule when now falls on another local
// date. On failure the previous schedule stays in use and the next
// resolution tries again.
func (r *Resolver) refreshSchedule(now time.Time) {
	if r.compute == nil || r.schedule.Covers(now) {
		return
	}
	s, err := r.compute(now)
	if err != nil {
		r.logger.Warn("schedule recompute failed, keeping previous schedule",
			"date", now.Format(time.DateOnly),
			"error", err,
		)
		return
	}
	r.schedule = s
	LogSchedule(r.logger, s)
}

// Snapshot returns a copy of the current state.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Snapshot{
		Schedule:    r.schedule,
		LastEmitted: r.lastEmitted,
		HasEmitted:  r.hasEmitted,
		Source:      r.lastSource,
		Phase:       r.lastPhase,
	}
	if r.override != nil {
		o := *r.override
		s.Override = &o
	}
	return s
}

func samePhase(a, b solar.Event) bool {
	return a.Theme == b.Theme
}

// LogSchedule writes one line per boundary of s, plus a warning naming any
// phases that did not occur.
func LogSchedule(logger Logger, s solar.Schedule) {
	date := s.Date().Format(time.DateOnly)
	for _, e := range s.Events() {
		logger.Info("solar schedule",
			"date", date,
			"time", e.At.Format(time.TimeOnly),
			"phase", e.Theme.String(),
			"theme", e.Theme.Label(),
			"description", e.Theme.Description(),
		)
	}
	if missing := s.Substituted(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, id := range missing {
			names[i] = id.String()
		}
		logger.Warn("solar phases do not occur at this latitude today, using nearest boundary",
			"date", date,
			"phases", names,
		)
	}
}
