package inventory

import (
	"fmt"
	"strings"
)

// Name length bounds for person names and surnames.
const (
	minPersonNameLength = 3
	maxPersonNameLength = 32
)

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors accumulates every invalid field of an entity so callers can
// report all problems in one pass instead of stopping at the first.
type FieldErrors []FieldError

// Error implements the error interface.
func (e FieldErrors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add appends a field error.
func (e *FieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// orNil returns the accumulated errors, or nil if there are none.
// Returning a typed nil as error would never compare equal to nil.
func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// ValidatePerson checks name, surname, and email.
// Names must be non-blank and between 3 and 32 characters; the email must
// be non-blank and contain "@".
func ValidatePerson(p *Person) error {
	var errs FieldErrors

	validatePersonName(&errs, "name", p.Name)
	validatePersonName(&errs, "surname", p.Surname)

	email := strings.TrimSpace(p.Email)
	switch {
	case email == "":
		errs.add("email", "email is required")
	case !strings.Contains(email, "@"):
		errs.add("email", "email must contain @")
	}

	return errs.orNil()
}

// validatePersonName applies the shared name/surname rules.
func validatePersonName(errs *FieldErrors, field, value string) {
	trimmed := strings.TrimSpace(value)
	switch {
	case trimmed == "":
		errs.add(field, field+" is required")
	case len(trimmed) < minPersonNameLength || len(trimmed) > maxPersonNameLength:
		errs.add(field, fmt.Sprintf("%s must be between %d and %d characters", field, minPersonNameLength, maxPersonNameLength))
	}
}

// ValidateRoom checks that the room name is non-blank.
func ValidateRoom(r *Room) error {
	var errs FieldErrors
	if strings.TrimSpace(r.Name) == "" {
		errs.add("name", "name is required")
	}
	return errs.orNil()
}

// ValidateDeviceType checks that the type label and information type are non-blank.
func ValidateDeviceType(dt *DeviceType) error {
	var errs FieldErrors
	if strings.TrimSpace(dt.Type) == "" {
		errs.add("type", "type is required")
	}
	if strings.TrimSpace(dt.InformationType) == "" {
		errs.add("information_type", "information type is required")
	}
	return errs.orNil()
}

// ValidateDevice checks the name and both ownership references.
// Reference existence is enforced by the schema; here only presence is checked.
func ValidateDevice(d *Device) error {
	var errs FieldErrors
	if strings.TrimSpace(d.Name) == "" {
		errs.add("name", "name is required")
	}
	if d.DeviceTypeID <= 0 {
		errs.add("device_type", "device type is required")
	}
	if d.RoomID <= 0 {
		errs.add("room", "room is required")
	}
	return errs.orNil()
}
