package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/hollis-dev/homeinv-core/internal/auth"
)

func TestPersonRepositoryCRUD(t *testing.T) {
	db := testDB(t)
	repo := NewSQLitePersonRepository(db)
	ctx := context.Background()

	p := &Person{
		Name:         "Maria",
		Surname:      "Papadopoulou",
		Email:        "maria@example.com",
		PasswordHash: "$argon2id$fake",
	}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if p.ID == 0 {
		t.Fatal("Create() did not set ID")
	}
	if p.Role != auth.RoleUser {
		t.Errorf("Role = %q, want default %q", p.Role, auth.RoleUser)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != "maria@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "maria@example.com")
	}

	byEmail, err := repo.GetByEmail(ctx, "maria@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != p.ID {
		t.Errorf("GetByEmail() ID = %d, want %d", byEmail.ID, p.ID)
	}

	got.Surname = "Ioannou"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	updated, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetByID() after update error = %v", err)
	}
	if updated.Surname != "Ioannou" {
		t.Errorf("Surname = %q, want %q", updated.Surname, "Ioannou")
	}

	if err := repo.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, p.ID); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrPersonNotFound", err)
	}
}

func TestPersonRepositoryDuplicateEmail(t *testing.T) {
	db := testDB(t)
	repo := NewSQLitePersonRepository(db)
	ctx := context.Background()

	seedPerson(t, db, "Maria", "Papadopoulou", "maria@example.com", auth.RoleUser)

	dup := &Person{Name: "Other", Surname: "Person", Email: "maria@example.com", PasswordHash: "x"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Create() duplicate email error = %v, want ErrEmailExists", err)
	}

	second := seedPerson(t, db, "Nikos", "Georgiou", "nikos@example.com", auth.RoleUser)
	second.Email = "maria@example.com"
	if err := repo.Update(ctx, second); !errors.Is(err, ErrEmailExists) {
		t.Errorf("Update() duplicate email error = %v, want ErrEmailExists", err)
	}
}

func TestPersonRepositoryNotFound(t *testing.T) {
	db := testDB(t)
	repo := NewSQLitePersonRepository(db)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("GetByID(999) error = %v, want ErrPersonNotFound", err)
	}
	if _, err := repo.GetByEmail(ctx, "ghost@example.com"); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("GetByEmail() error = %v, want ErrPersonNotFound", err)
	}
	if err := repo.Update(ctx, &Person{ID: 999, Name: "X", Surname: "Y", Email: "z@z.z"}); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("Update() error = %v, want ErrPersonNotFound", err)
	}
	if err := repo.Delete(ctx, 999); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("Delete() error = %v, want ErrPersonNotFound", err)
	}
}

func TestPersonRepositoryReplaceDevices(t *testing.T) {
	db := testDB(t)
	repo := NewSQLitePersonRepository(db)
	ctx := context.Background()

	person := seedPerson(t, db, "Maria", "Papadopoulou", "maria@example.com", auth.RoleUser)
	room := seedRoom(t, db, "Kitchen")
	dt := seedDeviceType(t, db, "Lamp", "OnOff")
	d1 := seedDevice(t, db, "Lamp One", dt.ID, room.ID)
	d2 := seedDevice(t, db, "Lamp Two", dt.ID, room.ID)

	if err := repo.ReplaceDevices(ctx, person.ID, []int64{d1.ID, d2.ID}); err != nil {
		t.Fatalf("ReplaceDevices() error = %v", err)
	}

	ids, err := repo.DeviceIDs(ctx, person.ID)
	if err != nil {
		t.Fatalf("DeviceIDs() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("DeviceIDs() = %v, want 2 entries", ids)
	}

	// Shrinking the set removes stale assignments
	if err := repo.ReplaceDevices(ctx, person.ID, []int64{d2.ID}); err != nil {
		t.Fatalf("ReplaceDevices() shrink error = %v", err)
	}
	ids, err = repo.DeviceIDs(ctx, person.ID)
	if err != nil {
		t.Fatalf("DeviceIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != d2.ID {
		t.Errorf("DeviceIDs() = %v, want [%d]", ids, d2.ID)
	}

	// Unknown device rolls the whole replacement back
	if err := repo.ReplaceDevices(ctx, person.ID, []int64{d1.ID, 999}); !errors.Is(err, ErrDeviceNotFound) {
		t.Errorf("ReplaceDevices() with unknown device error = %v, want ErrDeviceNotFound", err)
	}
	ids, err = repo.DeviceIDs(ctx, person.ID)
	if err != nil {
		t.Fatalf("DeviceIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != d2.ID {
		t.Errorf("assignments after failed replace = %v, want unchanged [%d]", ids, d2.ID)
	}

	// Unknown person
	if err := repo.ReplaceDevices(ctx, 999, []int64{d1.ID}); !errors.Is(err, ErrPersonNotFound) {
		t.Errorf("ReplaceDevices() unknown person error = %v, want ErrPersonNotFound", err)
	}
}

func TestPersonRepositoryDeleteClearsAssignments(t *testing.T) {
	db := testDB(t)
	repo := NewSQLitePersonRepository(db)
	ctx := context.Background()

	person := seedPerson(t, db, "Maria", "Papadopoulou", "maria@example.com", auth.RoleUser)
	room := seedRoom(t, db, "Kitchen")
	dt := seedDeviceType(t, db, "Lamp", "OnOff")
	device := seedDevice(t, db, "Lamp One", dt.ID, room.ID)
	assignDevices(t, db, person.ID, device.ID)

	// Despite the active assignment the person delete succeeds because the
	// assignment rows are cleared in the same transaction.
	if err := repo.Delete(ctx, person.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// The device itself survives
	devices := NewSQLiteDeviceRepository(db)
	if _, err := devices.GetByID(ctx, device.ID); err != nil {
		t.Errorf("device should survive person delete, GetByID() error = %v", err)
	}

	var assignments int
	if err := db.QueryRow("SELECT COUNT(*) FROM person_devices").Scan(&assignments); err != nil {
		t.Fatalf("counting assignments: %v", err)
	}
	if assignments != 0 {
		t.Errorf("assignments after person delete = %d, want 0", assignments)
	}
}

func TestSeedAdmin(t *testing.T) {
	db := testDB(t)
	repo := NewSQLitePersonRepository(db)
	ctx := context.Background()

	password, err := SeedAdmin(ctx, repo, discardLogger())
	if err != nil {
		t.Fatalf("SeedAdmin() error = %v", err)
	}
	if password == "" {
		t.Fatal("SeedAdmin() returned empty password on first boot")
	}

	admin, err := repo.GetByEmail(ctx, "admin@homeinv.local")
	if err != nil {
		t.Fatalf("GetByEmail() after seed error = %v", err)
	}
	if admin.Role != auth.RoleAdmin {
		t.Errorf("seed admin role = %q, want %q", admin.Role, auth.RoleAdmin)
	}

	ok, err := auth.VerifyPassword(password, admin.PasswordHash)
	if err != nil || !ok {
		t.Errorf("seed password does not verify: ok=%v err=%v", ok, err)
	}

	// Second call is a no-op
	password2, err := SeedAdmin(ctx, repo, discardLogger())
	if err != nil {
		t.Fatalf("second SeedAdmin() error = %v", err)
	}
	if password2 != "" {
		t.Error("SeedAdmin() seeded again with existing people")
	}
}
