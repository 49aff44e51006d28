package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/hollis-dev/homeinv-core/internal/auth"
)

func TestRoomRepositoryCRUD(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRoomRepository(db)
	ctx := context.Background()

	room := &Room{Name: "Kitchen"}
	if err := repo.Create(ctx, room); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if room.ID == 0 {
		t.Fatal("Create() did not set ID")
	}

	got, err := repo.GetByID(ctx, room.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Name != "Kitchen" {
		t.Errorf("Name = %q, want %q", got.Name, "Kitchen")
	}

	got.Name = "Living Room"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	rooms, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rooms) != 1 || rooms[0].Name != "Living Room" {
		t.Errorf("List() = %+v, want single renamed room", rooms)
	}

	if err := repo.Delete(ctx, room.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, room.ID); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomRepositoryDeleteInUse(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRoomRepository(db)
	ctx := context.Background()

	room := seedRoom(t, db, "Kitchen")
	dt := seedDeviceType(t, db, "Fridge", "Temperature")
	seedDevice(t, db, "Main Fridge", dt.ID, room.ID)

	if err := repo.Delete(ctx, room.ID); !errors.Is(err, ErrRoomInUse) {
		t.Errorf("Delete() occupied room error = %v, want ErrRoomInUse", err)
	}

	// Room survives the failed delete
	if _, err := repo.GetByID(ctx, room.ID); err != nil {
		t.Errorf("room should survive failed delete: %v", err)
	}
}

func TestRoomRepositoryListWithDeviceCounts(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRoomRepository(db)
	ctx := context.Background()

	kitchen := seedRoom(t, db, "Kitchen")
	bedroom := seedRoom(t, db, "Bedroom")
	seedRoom(t, db, "Empty Attic")
	dt := seedDeviceType(t, db, "Lamp", "OnOff")
	seedDevice(t, db, "Kitchen Lamp", dt.ID, kitchen.ID)
	seedDevice(t, db, "Kitchen Spot", dt.ID, kitchen.ID)
	seedDevice(t, db, "Bedroom Lamp", dt.ID, bedroom.ID)

	counts, err := repo.ListWithDeviceCounts(ctx)
	if err != nil {
		t.Fatalf("ListWithDeviceCounts() error = %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("ListWithDeviceCounts() returned %d rooms, want 3 (empty rooms included)", len(counts))
	}

	byName := make(map[string]int)
	for _, rc := range counts {
		byName[rc.Name] = rc.DeviceCount
	}
	if byName["Kitchen"] != 2 || byName["Bedroom"] != 1 || byName["Empty Attic"] != 0 {
		t.Errorf("counts = %v, want Kitchen:2 Bedroom:1 Empty Attic:0", byName)
	}
}

func TestRoomRepositoryListForPerson(t *testing.T) {
	db := testDB(t)
	repo := NewSQLiteRoomRepository(db)
	ctx := context.Background()

	kitchen := seedRoom(t, db, "Kitchen")
	bedroom := seedRoom(t, db, "Bedroom")
	dt := seedDeviceType(t, db, "Lamp", "OnOff")
	kl1 := seedDevice(t, db, "Kitchen Lamp", dt.ID, kitchen.ID)
	kl2 := seedDevice(t, db, "Kitchen Spot", dt.ID, kitchen.ID)
	seedDevice(t, db, "Bedroom Lamp", dt.ID, bedroom.ID)

	person := seedPerson(t, db, "Maria", "Papadopoulou", "maria@example.com", auth.RoleUser)
	assignDevices(t, db, person.ID, kl1.ID, kl2.ID)

	counts, err := repo.ListForPerson(ctx, person.ID)
	if err != nil {
		t.Fatalf("ListForPerson() error = %v", err)
	}
	// Bedroom has no devices assigned to Maria, so only Kitchen appears
	if len(counts) != 1 {
		t.Fatalf("ListForPerson() = %+v, want only the room with assignments", counts)
	}
	if counts[0].Name != "Kitchen" || counts[0].DeviceCount != 2 {
		t.Errorf("ListForPerson()[0] = %+v, want Kitchen with count 2", counts[0])
	}

	// A person with no assignments gets an empty result, not an error
	lonely := seedPerson(t, db, "Nikos", "Georgiou", "nikos@example.com", auth.RoleUser)
	counts, err = repo.ListForPerson(ctx, lonely.ID)
	if err != nil {
		t.Fatalf("ListForPerson() no assignments error = %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("ListForPerson() = %+v, want empty", counts)
	}

	// Unknown person: same contract, empty not error
	counts, err = repo.ListForPerson(ctx, 999)
	if err != nil {
		t.Fatalf("ListForPerson(999) error = %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("ListForPerson(999) = %+v, want empty", counts)
	}
}
