package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DeviceRepository defines persistence operations for devices, including
// the assignment-graph traversals the scope resolver builds on.
type DeviceRepository interface {
	// GetByID retrieves a device by id with its type and room labels.
	// Returns ErrDeviceNotFound if no such device exists.
	GetByID(ctx context.Context, id int64) (*Device, error)

	// List retrieves all devices ordered by name.
	List(ctx context.Context) ([]Device, error)

	// ListByRoom retrieves all devices installed in a room.
	// An unknown room yields an empty slice, not an error.
	ListByRoom(ctx context.Context, roomID int64) ([]Device, error)

	// ListByPerson retrieves all devices assigned to a person.
	// An unknown person yields an empty slice, not an error.
	ListByPerson(ctx context.Context, personID int64) ([]Device, error)

	// ListByPersonInRoom retrieves the intersection of a person's devices
	// and a room's devices, computed in a single query.
	ListByPersonInRoom(ctx context.Context, personID, roomID int64) ([]Device, error)

	// Create inserts a new device and sets its generated ID.
	// Returns ErrInvalidReference if the room or device type is unknown.
	Create(ctx context.Context, d *Device) error

	// Update modifies an existing device.
	// Returns ErrDeviceNotFound or ErrInvalidReference.
	Update(ctx context.Context, d *Device) error

	// Delete removes a device.
	// Returns ErrDeviceNotFound if the device does not exist and
	// ErrDeviceAssigned if it is still assigned to a person.
	Delete(ctx context.Context, id int64) error

	// UpdateStatus sets the on/off status of a device.
	// Returns ErrDeviceNotFound if the device does not exist.
	UpdateStatus(ctx context.Context, id int64, on bool) error

	// UpdateInformation sets the information reading of a device.
	// Returns ErrDeviceNotFound if the device does not exist.
	UpdateInformation(ctx context.Context, id int64, value string) error
}

// SQLiteDeviceRepository implements DeviceRepository using SQLite.
type SQLiteDeviceRepository struct {
	db *sql.DB
}

// NewSQLiteDeviceRepository creates a SQLite-backed device repository.
func NewSQLiteDeviceRepository(db *sql.DB) *SQLiteDeviceRepository {
	return &SQLiteDeviceRepository{db: db}
}

// deviceSelect joins type and room labels into every device read.
const deviceSelect = `
	SELECT d.id, d.name, d.status_on, d.information, d.device_type_id, d.room_id,
		t.type, r.name, d.created_at, d.updated_at
	FROM devices d
	JOIN device_types t ON t.id = d.device_type_id
	JOIN rooms r ON r.id = d.room_id`

// scanDevice scans one joined device row.
func scanDevice(row scanner) (*Device, error) {
	var d Device
	var statusOn int
	var createdAt, updatedAt string
	if err := row.Scan(&d.ID, &d.Name, &statusOn, &d.Information, &d.DeviceTypeID, &d.RoomID,
		&d.TypeLabel, &d.RoomName, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.StatusOn = statusOn != 0
	d.CreatedAt = parseTimestamp(createdAt)
	d.UpdatedAt = parseTimestamp(updatedAt)
	return &d, nil
}

// queryDevices runs a device query and collects the results.
func (r *SQLiteDeviceRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// GetByID retrieves a device by id with its type and room labels.
func (r *SQLiteDeviceRepository) GetByID(ctx context.Context, id int64) (*Device, error) {
	row := r.db.QueryRowContext(ctx, deviceSelect+" WHERE d.id = ?", id)

	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// List retrieves all devices ordered by name.
func (r *SQLiteDeviceRepository) List(ctx context.Context) ([]Device, error) {
	return r.queryDevices(ctx, deviceSelect+" ORDER BY d.name")
}

// ListByRoom retrieves all devices installed in a room.
func (r *SQLiteDeviceRepository) ListByRoom(ctx context.Context, roomID int64) ([]Device, error) {
	return r.queryDevices(ctx, deviceSelect+" WHERE d.room_id = ? ORDER BY d.name", roomID)
}

// ListByPerson retrieves all devices assigned to a person.
func (r *SQLiteDeviceRepository) ListByPerson(ctx context.Context, personID int64) ([]Device, error) {
	return r.queryDevices(ctx, deviceSelect+`
		JOIN person_devices pd ON pd.device_id = d.id
		WHERE pd.person_id = ?
		ORDER BY d.name`, personID)
}

// ListByPersonInRoom retrieves the person's devices within one room.
// The intersection happens in the store, not by filtering in memory.
func (r *SQLiteDeviceRepository) ListByPersonInRoom(ctx context.Context, personID, roomID int64) ([]Device, error) {
	return r.queryDevices(ctx, deviceSelect+`
		JOIN person_devices pd ON pd.device_id = d.id
		WHERE pd.person_id = ? AND d.room_id = ?
		ORDER BY d.name`, personID, roomID)
}

// Create inserts a new device and sets its generated ID.
func (r *SQLiteDeviceRepository) Create(ctx context.Context, d *Device) error {
	result, err := r.db.ExecContext(ctx, `
		INSERT INTO devices (name, status_on, information, device_type_id, room_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Name, boolToInt(d.StatusOn), d.Information, d.DeviceTypeID, d.RoomID, nowUTC(), nowUTC(),
	)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading device id: %w", err)
	}
	d.ID = id
	return nil
}

// Update modifies an existing device.
func (r *SQLiteDeviceRepository) Update(ctx context.Context, d *Device) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE devices
		SET name = ?, status_on = ?, information = ?, device_type_id = ?, room_id = ?, updated_at = ?
		WHERE id = ?`,
		d.Name, boolToInt(d.StatusOn), d.Information, d.DeviceTypeID, d.RoomID, nowUTC(), d.ID,
	)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return ErrInvalidReference
		}
		return fmt.Errorf("updating device: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// Delete removes a device. The person_devices.device_id RESTRICT constraint
// turns a delete of an assigned device into ErrDeviceAssigned.
func (r *SQLiteDeviceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return ErrDeviceAssigned
		}
		return fmt.Errorf("deleting device: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// UpdateStatus sets the on/off status of a device.
func (r *SQLiteDeviceRepository) UpdateStatus(ctx context.Context, id int64, on bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE devices SET status_on = ?, updated_at = ? WHERE id = ?",
		boolToInt(on), nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating device status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// UpdateInformation sets the information reading of a device.
func (r *SQLiteDeviceRepository) UpdateInformation(ctx context.Context, id int64, value string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE devices SET information = ?, updated_at = ? WHERE id = ?",
		value, nowUTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating device information: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}
