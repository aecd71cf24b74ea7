package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a history entry.
type Kind string

const (
	// KindTransition records a change of published label.
	KindTransition Kind = "transition"
	// KindOverride records a consumed override command.
	KindOverride Kind = "override"
	// KindRevert records a consumed revert command.
	KindRevert Kind = "revert"
)

// Page size bounds for List.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// ErrInvalidKind is returned when an entry or filter names an unknown kind.
var ErrInvalidKind = errors.New("invalid history kind")

// Entry is one row of theme_history.
type Entry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Theme     string    `json:"theme"`
	Source    string    `json:"source"`
	Phase     string    `json:"phase"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter selects entries for List. Zero values match everything.
type Filter struct {
	Kind   Kind
	Since  time.Time
	Limit  int
	Offset int
}

// ListResult is one page of entries, newest first.
type ListResult struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
	Limit   int     `json:"limit"`
	Offset  int     `json:"offset"`
}

// Repository stores and queries theme history.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	List(ctx context.Context, filter Filter) (*ListResult, error)
}

// SQLiteRepository is the theme_history table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository wraps db, which must have the theme_history migration applied.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func validKind(k Kind) bool {
	switch k {
	case KindTransition, KindOverride, KindRevert:
		return true
	}
	return false
}

// Create inserts e, filling ID and CreatedAt when empty.
func (r *SQLiteRepository) Create(ctx context.Context, e *Entry) error {
	if !validKind(e.Kind) {
		return fmt.Errorf("%w: %q", ErrInvalidKind, e.Kind)
	}
	if e.ID == "" {
		e.ID = "thm-" + uuid.NewString()[:8]
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO theme_history (id, kind, theme, source, phase, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, string(e.Kind), e.Theme, e.Source, e.Phase, e.Detail,
		e.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting theme history: %w", err)
	}
	return nil
}

// List returns entries matching filter, newest first. Limit is clamped to
// [1, MaxLimit] with DefaultLimit for zero.
func (r *SQLiteRepository) List(ctx context.Context, filter Filter) (*ListResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	var conditions []string
	var args []any
	if filter.Kind != "" {
		if !validKind(filter.Kind) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidKind, filter.Kind)
		}
		conditions = append(conditions, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM theme_history " + where //nolint:gosec // placeholders only
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting theme history: %w", err)
	}

	query := "SELECT id, kind, theme, source, phase, detail, created_at FROM theme_history " + //nolint:gosec // placeholders only
		where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying theme history: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var kind, createdAt string
		if err := rows.Scan(&e.ID, &kind, &e.Theme, &e.Source, &e.Phase, &e.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning theme history: %w", err)
		}
		e.Kind = Kind(kind)
		if e.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("parsing theme history timestamp %q: %w", createdAt, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating theme history: %w", err)
	}

	return &ListResult{
		Entries: entries,
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}, nil
}
