package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/neiam/theme-sender/internal/infrastructure/config"
	"github.com/neiam/theme-sender/internal/infrastructure/database"
	"github.com/neiam/theme-sender/migrations"
)

func openTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, config.DatabaseConfig{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck // test cleanup

	if err := db.Migrate(ctx, migrations.FS); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewSQLiteRepository(db.DB)
}

var base = time.Date(2024, time.June, 1, 6, 0, 0, 0, time.UTC)

func seed(t *testing.T, repo *SQLiteRepository) {
	t.Helper()
	entries := []Entry{
		{Kind: KindTransition, Theme: "light", Source: "solar", Phase: "sunrise", CreatedAt: base},
		{Kind: KindOverride, Theme: "party", Source: "override", Phase: "sunrise", Detail: "party", CreatedAt: base.Add(90 * time.Minute)},
		{Kind: KindTransition, Theme: "party", Source: "override", Phase: "sunrise", CreatedAt: base.Add(90 * time.Minute)},
		{Kind: KindTransition, Theme: "light", Source: "solar", Phase: "day", Detail: "override expired", CreatedAt: base.Add(2 * time.Hour)},
		{Kind: KindRevert, Theme: "light", Source: "solar", Phase: "day", CreatedAt: base.Add(3 * time.Hour)},
	}
	for i := range entries {
		if err := repo.Create(context.Background(), &entries[i]); err != nil {
			t.Fatalf("Create(%d) error = %v", i, err)
		}
	}
}

func TestCreate_FillsDefaults(t *testing.T) {
	repo := openTestRepo(t)

	e := Entry{Kind: KindTransition, Theme: "dark", Source: "solar", Phase: "night"}
	if err := repo.Create(context.Background(), &e); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(e.ID) != len("thm-")+8 || e.ID[:4] != "thm-" {
		t.Errorf("ID = %q, want thm-xxxxxxxx", e.ID)
	}
	if e.CreatedAt.IsZero() || e.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want now in UTC", e.CreatedAt)
	}
}

func TestCreate_InvalidKind(t *testing.T) {
	repo := openTestRepo(t)

	err := repo.Create(context.Background(), &Entry{Kind: "bogus", Theme: "x"})
	if !errors.Is(err, ErrInvalidKind) {
		t.Errorf("Create() error = %v, want ErrInvalidKind", err)
	}
}

func TestList(t *testing.T) {
	repo := openTestRepo(t)
	seed(t, repo)

	tests := []struct {
		name      string
		filter    Filter
		wantTotal int
		wantLen   int
		wantLimit int
	}{
		{"all", Filter{}, 5, 5, DefaultLimit},
		{"transitions", Filter{Kind: KindTransition}, 3, 3, DefaultLimit},
		{"reverts", Filter{Kind: KindRevert}, 1, 1, DefaultLimit},
		{"since", Filter{Since: base.Add(2 * time.Hour)}, 2, 2, DefaultLimit},
		{"page", Filter{Limit: 2, Offset: 1}, 5, 2, 2},
		{"past the end", Filter{Offset: 10}, 5, 0, DefaultLimit},
		{"limit clamped", Filter{Limit: 1000}, 5, 5, MaxLimit},
		{"negative offset", Filter{Offset: -3}, 5, 5, DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := repo.List(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if res.Total != tt.wantTotal || len(res.Entries) != tt.wantLen || res.Limit != tt.wantLimit {
				t.Errorf("total=%d len=%d limit=%d, want %d %d %d",
					res.Total, len(res.Entries), res.Limit, tt.wantTotal, tt.wantLen, tt.wantLimit)
			}
		})
	}
}

func TestList_NewestFirst(t *testing.T) {
	repo := openTestRepo(t)
	seed(t, repo)

	res, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for i := 1; i < len(res.Entries); i++ {
		if res.Entries[i].CreatedAt.After(res.Entries[i-1].CreatedAt) {
			t.Fatalf("entries out of order at %d: %v after %v", i, res.Entries[i].CreatedAt, res.Entries[i-1].CreatedAt)
		}
	}
	if first := res.Entries[0]; first.Kind != KindRevert || !first.CreatedAt.Equal(base.Add(3*time.Hour)) {
		t.Errorf("first = %+v, want the revert", first)
	}
}

func TestList_InvalidKind(t *testing.T) {
	repo := openTestRepo(t)
	if _, err := repo.List(context.Background(), Filter{Kind: "nope"}); !errors.Is(err, ErrInvalidKind) {
		t.Errorf("List() error = %v, want ErrInvalidKind", err)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo := openTestRepo(t)
	res, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if res.Entries == nil {
		t.Error("Entries = nil, want empty slice")
	}
}
