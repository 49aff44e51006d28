package audit

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func testRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE audit_logs (
			id          TEXT PRIMARY KEY,
			action      TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id   TEXT,
			actor       TEXT,
			details     TEXT,
			created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return NewSQLiteRepository(db)
}

func TestCreateGeneratesIDAndTimestamp(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	e := &Entry{Action: "create", EntityType: "device", EntityID: "42", Actor: "admin@homeinv.local"}
	if err := repo.Create(ctx, e); err != nil {
		t.Fatalf("Create error = %v", err)
	}
	if !strings.HasPrefix(e.ID, "aud-") {
		t.Errorf("ID = %q, want aud- prefix", e.ID)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestListFilters(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	seed := []Entry{
		{Action: "create", EntityType: "device", EntityID: "1"},
		{Action: "delete", EntityType: "device", EntityID: "1"},
		{Action: "create", EntityType: "room", EntityID: "7",
			Details: map[string]any{"name": "Kitchen"}},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("seeding entry %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if all.Total != 3 || len(all.Entries) != 3 {
		t.Errorf("List() total = %d, entries = %d, want 3 each", all.Total, len(all.Entries))
	}

	devices, err := repo.List(ctx, Filter{EntityType: "device"})
	if err != nil {
		t.Fatalf("List(device) error = %v", err)
	}
	if devices.Total != 2 {
		t.Errorf("List(device) total = %d, want 2", devices.Total)
	}

	deletes, err := repo.List(ctx, Filter{Action: "delete", EntityType: "device"})
	if err != nil {
		t.Fatalf("List(delete,device) error = %v", err)
	}
	if deletes.Total != 1 {
		t.Errorf("List(delete,device) total = %d, want 1", deletes.Total)
	}

	rooms, err := repo.List(ctx, Filter{EntityType: "room"})
	if err != nil {
		t.Fatalf("List(room) error = %v", err)
	}
	if len(rooms.Entries) != 1 {
		t.Fatalf("List(room) entries = %d, want 1", len(rooms.Entries))
	}
	if got := rooms.Entries[0].Details["name"]; got != "Kitchen" {
		t.Errorf("Details[name] = %v, want Kitchen", got)
	}
}

func TestListEmptyIsSliceNotNil(t *testing.T) {
	repo := testRepo(t)

	result, err := repo.List(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if result.Entries == nil {
		t.Error("Entries is nil, want empty slice")
	}
}

func TestListClampsLimit(t *testing.T) {
	repo := testRepo(t)

	result, err := repo.List(context.Background(), Filter{Limit: 1000, Offset: -5})
	if err != nil {
		t.Fatalf("List error = %v", err)
	}
	if result.Limit != 200 {
		t.Errorf("Limit = %d, want 200", result.Limit)
	}
	if result.Offset != 0 {
		t.Errorf("Offset = %d, want 0", result.Offset)
	}
}

func TestTrailNilSafe(t *testing.T) {
	var trail *Trail
	// Must not panic with no recorder wired.
	trail.Record(context.Background(), &Entry{Action: "create", EntityType: "device"})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	trail = NewTrail(testRepo(t), logger)
	trail.Record(context.Background(), &Entry{Action: "create", EntityType: "device"})
}
