package scope

import (
	"context"
	"errors"
	"fmt"

	"github.com/hollis-dev/homeinv-core/internal/auth"
	"github.com/hollis-dev/homeinv-core/internal/inventory"
)

// Resolver resolves device and room views against the role matrix:
//
//	ADMIN: all devices, any room's devices, every room.
//	USER:  own devices, own devices per room, rooms holding own devices.
//
// Cross-identity requests are rejected with auth.ErrAccessDenied. The same
// error covers requests targeting people that do not exist, so a denied
// caller cannot probe which identities are real.
type Resolver struct {
	devices inventory.DeviceRepository
	rooms   inventory.RoomRepository
	people  inventory.PersonRepository
}

// NewResolver creates a resolver over the inventory repositories.
func NewResolver(devices inventory.DeviceRepository, rooms inventory.RoomRepository, people inventory.PersonRepository) *Resolver {
	return &Resolver{devices: devices, rooms: rooms, people: people}
}

// Devices resolves a device view for the principal.
//
// Permitted scopes always succeed: an empty room or an assignment-free
// person yields an empty slice, never an error. Only the role matrix and
// identity checks produce auth.ErrAccessDenied.
func (r *Resolver) Devices(ctx context.Context, principal *auth.Principal, sc Scope) ([]inventory.Device, error) {
	if principal == nil {
		return nil, auth.ErrAccessDenied
	}

	switch sc.Kind() {
	case KindAll:
		if !principal.IsAdmin() {
			return nil, auth.ErrAccessDenied
		}
		return r.devices.List(ctx)

	case KindByRoom:
		if !principal.IsAdmin() {
			return nil, auth.ErrAccessDenied
		}
		return r.devices.ListByRoom(ctx, sc.RoomID())

	case KindForUser:
		if err := r.checkIdentity(ctx, principal, sc.PersonID()); err != nil {
			return nil, err
		}
		return r.devices.ListByPerson(ctx, sc.PersonID())

	case KindForUserInRoom:
		if err := r.checkIdentity(ctx, principal, sc.PersonID()); err != nil {
			return nil, err
		}
		return r.devices.ListByPersonInRoom(ctx, sc.PersonID(), sc.RoomID())

	default:
		return nil, fmt.Errorf("unknown scope kind %s", sc.Kind())
	}
}

// Rooms resolves the principal's room list with device counts: admins see
// every room with its total device count, users see only the rooms holding
// their assigned devices with per-person counts.
func (r *Resolver) Rooms(ctx context.Context, principal *auth.Principal) ([]inventory.RoomDeviceCount, error) {
	if principal == nil {
		return nil, auth.ErrAccessDenied
	}

	if principal.IsAdmin() {
		return r.rooms.ListWithDeviceCounts(ctx)
	}
	return r.rooms.ListForPerson(ctx, principal.PersonID)
}

// checkIdentity verifies that a user-scoped request targets the requesting
// principal. Admins are denied outright: the admin view of a person's
// devices goes through the all-devices scope, not through impersonation.
//
// The target is resolved and its email compared against the principal's so
// a stale token cannot reach another account that reused the id. A missing
// target produces the same denial as a mismatched one.
func (r *Resolver) checkIdentity(ctx context.Context, principal *auth.Principal, targetID int64) error {
	if principal.IsAdmin() {
		return auth.ErrAccessDenied
	}
	if targetID != principal.PersonID {
		return auth.ErrAccessDenied
	}

	target, err := r.people.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, inventory.ErrPersonNotFound) {
			return auth.ErrAccessDenied
		}
		return fmt.Errorf("resolving scope target: %w", err)
	}
	if target.Email != principal.Email {
		return auth.ErrAccessDenied
	}
	return nil
}
