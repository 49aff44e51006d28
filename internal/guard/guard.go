// Package guard wraps inventory mutations with validation and conflict
// classification. Writes go through here so that every invalid field is
// reported in one pass and every blocked delete comes back as a Conflict
// naming the record and the way out.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/hollis-dev/homeinv-core/internal/auth"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

// Guard validates and classifies inventory mutations before they reach the
// repositories.
type Guard struct {
	people  inventory.PersonRepository
	rooms   inventory.RoomRepository
	types   inventory.DeviceTypeRepository
	devices inventory.DeviceRepository
}

// New creates a mutation guard over the inventory repositories.
func New(
	people inventory.PersonRepository,
	rooms inventory.RoomRepository,
	types inventory.DeviceTypeRepository,
	devices inventory.DeviceRepository,
) *Guard {
	return &Guard{people: people, rooms: rooms, types: types, devices: devices}
}

// CreatePerson validates and inserts a person. A duplicate email is
// reported as a field error on "email" rather than a bare sentinel, so
// clients render it next to the accumulated validation errors.
func (g *Guard) CreatePerson(ctx context.Context, p *inventory.Person) error {
	if err := inventory.ValidatePerson(p); err != nil {
		return err
	}
	if err := g.people.Create(ctx, p); err != nil {
		return translateEmailConflict(err)
	}
	return nil
}

// UpdatePerson validates and saves changes to a person.
func (g *Guard) UpdatePerson(ctx context.Context, p *inventory.Person) error {
	if err := inventory.ValidatePerson(p); err != nil {
		return err
	}
	if err := g.people.Update(ctx, p); err != nil {
		return translateEmailConflict(err)
	}
	return nil
}

// DeletePerson removes a person. Device assignments are cleared in the
// same transaction, so a person delete never conflicts.
func (g *Guard) DeletePerson(ctx context.Context, id int64) error {
	return g.people.Delete(ctx, id)
}

// AssignDevices replaces the set of devices assigned to a person.
func (g *Guard) AssignDevices(ctx context.Context, personID int64, deviceIDs []int64) error {
	return g.people.ReplaceDevices(ctx, personID, deviceIDs)
}

// CreateRoom validates and inserts a room.
func (g *Guard) CreateRoom(ctx context.Context, r *inventory.Room) error {
	if err := inventory.ValidateRoom(r); err != nil {
		return err
	}
	return g.rooms.Create(ctx, r)
}

// UpdateRoom validates and saves changes to a room.
func (g *Guard) UpdateRoom(ctx context.Context, r *inventory.Room) error {
	if err := inventory.ValidateRoom(r); err != nil {
		return err
	}
	return g.rooms.Update(ctx, r)
}

// DeleteRoom removes a room. If devices are still installed in it the
// delete is refused with a Conflict naming the room.
func (g *Guard) DeleteRoom(ctx context.Context, id int64) error {
	room, err := g.rooms.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := g.rooms.Delete(ctx, id); err != nil {
		if errors.Is(err, inventory.ErrRoomInUse) {
			return &Conflict{
				Action:   "delete",
				Entity:   "room",
				Name:     room.Name,
				Guidance: "move or delete its devices first",
			}
		}
		return err
	}
	return nil
}

// CreateDeviceType validates and inserts a device type.
func (g *Guard) CreateDeviceType(ctx context.Context, dt *inventory.DeviceType) error {
	if err := inventory.ValidateDeviceType(dt); err != nil {
		return err
	}
	return g.types.Create(ctx, dt)
}

// UpdateDeviceType validates and saves changes to a device type.
func (g *Guard) UpdateDeviceType(ctx context.Context, dt *inventory.DeviceType) error {
	if err := inventory.ValidateDeviceType(dt); err != nil {
		return err
	}
	return g.types.Update(ctx, dt)
}

// DeleteDeviceType removes a device type. If devices still reference it
// the delete is refused with a Conflict naming the type.
func (g *Guard) DeleteDeviceType(ctx context.Context, id int64) error {
	dt, err := g.types.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := g.types.Delete(ctx, id); err != nil {
		if errors.Is(err, inventory.ErrDeviceTypeInUse) {
			return &Conflict{
				Action:   "delete",
				Entity:   "device type",
				Name:     dt.Type,
				Guidance: "retype or delete its devices first",
			}
		}
		return err
	}
	return nil
}

// CreateDevice validates and inserts a device. An unknown room or device
// type id surfaces as inventory.ErrInvalidReference.
func (g *Guard) CreateDevice(ctx context.Context, d *inventory.Device) error {
	if err := inventory.ValidateDevice(d); err != nil {
		return err
	}
	return g.devices.Create(ctx, d)
}

// UpdateDevice validates and saves changes to a device.
func (g *Guard) UpdateDevice(ctx context.Context, d *inventory.Device) error {
	if err := inventory.ValidateDevice(d); err != nil {
		return err
	}
	return g.devices.Update(ctx, d)
}

// DeleteDevice removes a device. If it is still assigned to anyone the
// delete is refused with a Conflict naming the device.
func (g *Guard) DeleteDevice(ctx context.Context, id int64) error {
	device, err := g.devices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := g.devices.Delete(ctx, id); err != nil {
		if errors.Is(err, inventory.ErrDeviceAssigned) {
			return &Conflict{
				Action:   "delete",
				Entity:   "device",
				Name:     device.Name,
				Guidance: "unassign it from its owners first",
			}
		}
		return err
	}
	return nil
}

// UpdateDeviceStatus flips a device on or off and returns the updated
// record. Any authenticated principal may change any device's status,
// owner or not; tightening this to assignment holders is a matter of
// adding a resolver check here.
func (g *Guard) UpdateDeviceStatus(ctx context.Context, principal *auth.Principal, id int64, on bool) (*inventory.Device, error) {
	if principal == nil {
		return nil, auth.ErrAccessDenied
	}
	if err := g.devices.UpdateStatus(ctx, id, on); err != nil {
		return nil, err
	}
	device, err := g.devices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading device after status update: %w", err)
	}
	return device, nil
}

// UpdateDeviceValue sets a device's information reading and returns the
// updated record. Like UpdateDeviceStatus, any authenticated principal
// may write any device's value.
func (g *Guard) UpdateDeviceValue(ctx context.Context, principal *auth.Principal, id int64, value string) (*inventory.Device, error) {
	if principal == nil {
		return nil, auth.ErrAccessDenied
	}
	if err := g.devices.UpdateInformation(ctx, id, value); err != nil {
		return nil, err
	}
	device, err := g.devices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reloading device after value update: %w", err)
	}
	return device, nil
}

// translateEmailConflict maps the unique-email sentinel into a field
// error so it joins the validation error shape.
func translateEmailConflict(err error) error {
	if errors.Is(err, inventory.ErrEmailExists) {
		return inventory.FieldErrors{{Field: "email", Message: "email already registered"}}
	}
	return err
}
