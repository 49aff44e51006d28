package inventory

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hollis-dev/homeinv-core/internal/auth"
)

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testDB creates a temp-file SQLite database with the inventory schema.
// Foreign keys are enabled so RESTRICT behaviour matches production.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE people (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			name          TEXT NOT NULL,
			surname       TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL DEFAULT 'USER',
			created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE rooms (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE device_types (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			type             TEXT NOT NULL,
			information_type TEXT NOT NULL,
			created_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at       TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE devices (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			name           TEXT NOT NULL,
			status_on      INTEGER NOT NULL DEFAULT 0,
			information    TEXT NOT NULL DEFAULT '0',
			device_type_id INTEGER NOT NULL REFERENCES device_types(id) ON DELETE RESTRICT,
			room_id        INTEGER NOT NULL REFERENCES rooms(id) ON DELETE RESTRICT,
			created_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at     TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;
		CREATE TABLE person_devices (
			person_id  INTEGER NOT NULL REFERENCES people(id) ON DELETE RESTRICT,
			device_id  INTEGER NOT NULL REFERENCES devices(id) ON DELETE RESTRICT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			PRIMARY KEY (person_id, device_id)
		) STRICT;
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("creating test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedPerson inserts a person and returns it.
func seedPerson(t *testing.T, db *sql.DB, name, surname, email string, role auth.Role) *Person {
	t.Helper()

	repo := NewSQLitePersonRepository(db)
	p := &Person{
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: "$argon2id$fake",
		Role:         role,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seeding person %s: %v", email, err)
	}
	return p
}

// seedRoom inserts a room and returns it.
func seedRoom(t *testing.T, db *sql.DB, name string) *Room {
	t.Helper()

	repo := NewSQLiteRoomRepository(db)
	room := &Room{Name: name}
	if err := repo.Create(context.Background(), room); err != nil {
		t.Fatalf("seeding room %s: %v", name, err)
	}
	return room
}

// seedDeviceType inserts a device type and returns it.
func seedDeviceType(t *testing.T, db *sql.DB, label, infoType string) *DeviceType {
	t.Helper()

	repo := NewSQLiteDeviceTypeRepository(db)
	dt := &DeviceType{Type: label, InformationType: infoType}
	if err := repo.Create(context.Background(), dt); err != nil {
		t.Fatalf("seeding device type %s: %v", label, err)
	}
	return dt
}

// seedDevice inserts a device and returns it.
func seedDevice(t *testing.T, db *sql.DB, name string, typeID, roomID int64) *Device {
	t.Helper()

	repo := NewSQLiteDeviceRepository(db)
	d := &Device{
		Name:         name,
		Information:  "0",
		DeviceTypeID: typeID,
		RoomID:       roomID,
	}
	if err := repo.Create(context.Background(), d); err != nil {
		t.Fatalf("seeding device %s: %v", name, err)
	}
	return d
}

// assignDevices replaces a person's assignment set.
func assignDevices(t *testing.T, db *sql.DB, personID int64, deviceIDs ...int64) {
	t.Helper()

	repo := NewSQLitePersonRepository(db)
	if err := repo.ReplaceDevices(context.Background(), personID, deviceIDs); err != nil {
		t.Fatalf("assigning devices to person %d: %v", personID, err)
	}
}
