package inventory

import (
	"time"

	"github.com/hollis-dev/homeinv-core/internal/auth"
)

// Person is a household member or administrator account.
type Person struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	Role         auth.Role `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Room is a physical location devices are installed in.
type Room struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeviceType categorises devices and names the kind of reading they report
// (temperature, percentage, on/off, ...).
type DeviceType struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	InformationType string    `json:"information_type"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Device is a single appliance or sensor. Every device belongs to exactly
// one room and one device type. StatusOn is the on/off switch state;
// Information carries the current reading as reported by the device.
type Device struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	StatusOn     bool   `json:"status_on"`
	Information  string `json:"information"`
	DeviceTypeID int64  `json:"device_type_id"`
	RoomID       int64  `json:"room_id"`

	// Denormalised labels filled by list queries for display.
	TypeLabel string `json:"type,omitempty"`
	RoomName  string `json:"room,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RoomDeviceCount pairs a room with a device count. For admin listings the
// count covers all devices in the room; for per-person listings it counts
// only that person's assigned devices.
type RoomDeviceCount struct {
	RoomID      int64  `json:"room_id"`
	Name        string `json:"name"`
	DeviceCount int    `json:"device_count"`
}
