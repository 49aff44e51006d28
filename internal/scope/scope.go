// Package scope decides which slice of the inventory a principal may see
// and where a client should land after a mutation.
//
// The resolver is deliberately stateless: every call re-derives visibility
// from the principal and the store, so revoking an assignment takes effect
// on the next request.
package scope

import "fmt"

// Kind selects the requested device view.
type Kind int

const (
	// KindAll is every device in the system. Admin only.
	KindAll Kind = iota

	// KindByRoom is every device in one room. Admin only.
	KindByRoom

	// KindForUser is the devices assigned to one person. The target must
	// be the requesting principal itself.
	KindForUser

	// KindForUserInRoom narrows KindForUser to a single room.
	KindForUserInRoom
)

// String returns the kind's name for logs and errors.
func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindByRoom:
		return "by_room"
	case KindForUser:
		return "for_user"
	case KindForUserInRoom:
		return "for_user_in_room"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scope is a device view request. Construct values with All, ByRoom,
// ForUser, or ForUserInRoom; the zero value is KindAll.
type Scope struct {
	kind     Kind
	roomID   int64
	personID int64
}

// All requests every device in the system.
func All() Scope {
	return Scope{kind: KindAll}
}

// ByRoom requests every device in one room.
func ByRoom(roomID int64) Scope {
	return Scope{kind: KindByRoom, roomID: roomID}
}

// ForUser requests the devices assigned to one person.
func ForUser(personID int64) Scope {
	return Scope{kind: KindForUser, personID: personID}
}

// ForUserInRoom requests one person's devices within one room.
func ForUserInRoom(personID, roomID int64) Scope {
	return Scope{kind: KindForUserInRoom, personID: personID, roomID: roomID}
}

// Kind returns the view the scope requests.
func (s Scope) Kind() Kind { return s.kind }

// RoomID returns the room the scope targets, if any.
func (s Scope) RoomID() int64 { return s.roomID }

// PersonID returns the person the scope targets, if any.
func (s Scope) PersonID() int64 { return s.personID }
