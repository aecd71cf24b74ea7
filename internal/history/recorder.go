package history

import (
	"context"
	"time"

	"github.com/neiam/theme-sender/internal/override"
	"github.com/neiam/theme-sender/internal/publisher"
)

// writeTimeout bounds a single history insert so a slow disk cannot stall
// the publish loop for long.
const writeTimeout = 2 * time.Second

// Logger is the logging surface used by the recorder.
type Logger interface {
	Warn(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warn(string, ...any) {}

// Recorder is a publisher.Observer that writes consumed commands and label
// transitions to a Repository. Plain republishes are not recorded.
type Recorder struct {
	repo   Repository
	logger Logger
}

// NewRecorder creates a recorder. A nil logger discards write failures.
func NewRecorder(repo Repository, logger Logger) *Recorder {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Recorder{repo: repo, logger: logger}
}

// ThemePublished implements publisher.Observer.
func (r *Recorder) ThemePublished(ctx context.Context, p publisher.Publication) {
	for _, e := range Entries(p) {
		r.write(ctx, e)
	}
}

// Entries converts a publication into the history rows it produces:
// first the consumed command, if any, then the transition, if the label changed.
func Entries(p publisher.Publication) []Entry {
	var out []Entry
	base := Entry{
		Theme:     p.Message.Theme,
		Source:    string(p.Source),
		Phase:     p.Phase.Theme.String(),
		CreatedAt: p.Message.Data,
	}

	if p.Command != nil {
		e := base
		switch p.Command.Kind {
		case override.KindSet:
			e.Kind = KindOverride
			e.Detail = p.Command.Value
		case override.KindRevert:
			e.Kind = KindRevert
		}
		out = append(out, e)
	}

	if p.Changed {
		e := base
		e.Kind = KindTransition
		if p.Expired {
			e.Detail = "override expired"
		}
		out = append(out, e)
	}
	return out
}

func (r *Recorder) write(ctx context.Context, e Entry) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := r.repo.Create(ctx, &e); err != nil {
		r.logger.Warn("theme history write failed",
			"kind", string(e.Kind),
			"theme", e.Theme,
			"error", err,
		)
	}
}
