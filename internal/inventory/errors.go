package inventory

import "errors"

// Sentinel errors for inventory persistence.
// Use errors.Is() to check for these in calling code.
var (
	ErrPersonNotFound     = errors.New("person not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrDeviceTypeNotFound = errors.New("device type not found")
	ErrDeviceNotFound     = errors.New("device not found")

	// ErrEmailExists is returned when creating or updating a person with an
	// email address another account already uses.
	ErrEmailExists = errors.New("email already registered")

	// ErrRoomInUse is returned when deleting a room that still has devices.
	ErrRoomInUse = errors.New("room still has devices")

	// ErrDeviceTypeInUse is returned when deleting a device type that
	// devices still reference.
	ErrDeviceTypeInUse = errors.New("device type still has devices")

	// ErrDeviceAssigned is returned when deleting a device that is still
	// assigned to one or more people.
	ErrDeviceAssigned = errors.New("device is assigned to a person")

	// ErrInvalidReference is returned when a device names a room or device
	// type that does not exist.
	ErrInvalidReference = errors.New("referenced room or device type does not exist")
)
