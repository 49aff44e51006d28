package inventory

import (
	"errors"
	"testing"
)

// fieldsOf extracts the field names from a validation error.
func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	if err == nil {
		return nil
	}
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("error type = %T, want FieldErrors", err)
	}
	fields := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		fields[i] = fe.Field
	}
	return fields
}

func TestValidatePerson(t *testing.T) {
	tests := []struct {
		name       string
		person     Person
		wantFields []string
	}{
		{
			name:   "valid",
			person: Person{Name: "Maria", Surname: "Papadopoulou", Email: "maria@example.com"},
		},
		{
			name:       "blank name",
			person:     Person{Name: "  ", Surname: "Papadopoulou", Email: "maria@example.com"},
			wantFields: []string{"name"},
		},
		{
			name:       "name too short",
			person:     Person{Name: "Al", Surname: "Papadopoulou", Email: "al@example.com"},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			person:     Person{Name: "Maximillianvonlonglastingnamesson", Surname: "Papadopoulou", Email: "max@example.com"},
			wantFields: []string{"name"},
		},
		{
			name:       "email without at sign",
			person:     Person{Name: "Maria", Surname: "Papadopoulou", Email: "maria.example.com"},
			wantFields: []string{"email"},
		},
		{
			name:       "all fields invalid accumulate",
			person:     Person{Name: "", Surname: "X", Email: ""},
			wantFields: []string{"name", "surname", "email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePerson(&tt.person)
			got := fieldsOf(t, err)

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidatePerson() = %v, want nil", err)
				}
				return
			}
			if len(got) != len(tt.wantFields) {
				t.Fatalf("field errors = %v, want fields %v", err, tt.wantFields)
			}
			for i, field := range tt.wantFields {
				if got[i] != field {
					t.Errorf("field[%d] = %q, want %q", i, got[i], field)
				}
			}
		})
	}
}

func TestValidateRoom(t *testing.T) {
	if err := ValidateRoom(&Room{Name: "Kitchen"}); err != nil {
		t.Errorf("ValidateRoom() = %v, want nil", err)
	}
	if got := fieldsOf(t, ValidateRoom(&Room{Name: " "})); len(got) != 1 || got[0] != "name" {
		t.Errorf("blank room name fields = %v, want [name]", got)
	}
}

func TestValidateDeviceType(t *testing.T) {
	if err := ValidateDeviceType(&DeviceType{Type: "Thermostat", InformationType: "Temperature"}); err != nil {
		t.Errorf("ValidateDeviceType() = %v, want nil", err)
	}

	got := fieldsOf(t, ValidateDeviceType(&DeviceType{}))
	if len(got) != 2 || got[0] != "type" || got[1] != "information_type" {
		t.Errorf("empty device type fields = %v, want [type information_type]", got)
	}
}

func TestValidateDevice(t *testing.T) {
	tests := []struct {
		name       string
		device     Device
		wantFields []string
	}{
		{
			name:   "valid",
			device: Device{Name: "Ceiling Light", DeviceTypeID: 1, RoomID: 2},
		},
		{
			name:       "blank name",
			device:     Device{Name: "", DeviceTypeID: 1, RoomID: 2},
			wantFields: []string{"name"},
		},
		{
			name:       "missing references accumulate",
			device:     Device{Name: "Ceiling Light"},
			wantFields: []string{"device_type", "room"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fieldsOf(t, ValidateDevice(&tt.device))
			if len(got) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v", got, tt.wantFields)
			}
			for i, field := range tt.wantFields {
				if got[i] != field {
					t.Errorf("field[%d] = %q, want %q", i, got[i], field)
				}
			}
		})
	}
}

func TestFieldErrorsMessage(t *testing.T) {
	err := ValidatePerson(&Person{Name: "", Surname: "Papadopoulou", Email: "nope"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	if msg == "" || msg == "validation failed: " {
		t.Errorf("Error() = %q, want field details", msg)
	}
}
