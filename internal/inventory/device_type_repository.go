package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DeviceTypeRepository defines persistence operations for device types.
type DeviceTypeRepository interface {
	// GetByID retrieves a device type by id.
	// Returns ErrDeviceTypeNotFound if no such type exists.
	GetByID(ctx context.Context, id int64) (*DeviceType, error)

	// List retrieves all device types ordered by type label.
	List(ctx context.Context) ([]DeviceType, error)

	// Create inserts a new device type and sets its generated ID.
	Create(ctx context.Context, dt *DeviceType) error

	// Update modifies an existing device type.
	// Returns ErrDeviceTypeNotFound if the type does not exist.
	Update(ctx context.Context, dt *DeviceType) error

	// Delete removes a device type.
	// Returns ErrDeviceTypeNotFound if the type does not exist and
	// ErrDeviceTypeInUse if devices still reference it.
	Delete(ctx context.Context, id int64) error
}

// SQLiteDeviceTypeRepository implements DeviceTypeRepository using SQLite.
type SQLiteDeviceTypeRepository struct {
	db *sql.DB
}

// NewSQLiteDeviceTypeRepository creates a SQLite-backed device type repository.
func NewSQLiteDeviceTypeRepository(db *sql.DB) *SQLiteDeviceTypeRepository {
	return &SQLiteDeviceTypeRepository{db: db}
}

// scanDeviceType scans one device type row.
func scanDeviceType(row scanner) (*DeviceType, error) {
	var dt DeviceType
	var createdAt, updatedAt string
	if err := row.Scan(&dt.ID, &dt.Type, &dt.InformationType, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	dt.CreatedAt = parseTimestamp(createdAt)
	dt.UpdatedAt = parseTimestamp(updatedAt)
	return &dt, nil
}

// GetByID retrieves a device type by id.
func (r *SQLiteDeviceTypeRepository) GetByID(ctx context.Context, id int64) (*DeviceType, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, type, information_type, created_at, updated_at FROM device_types WHERE id = ?", id)

	dt, err := scanDeviceType(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceTypeNotFound
		}
		return nil, fmt.Errorf("querying device type by id: %w", err)
	}
	return dt, nil
}

// List retrieves all device types ordered by type label.
func (r *SQLiteDeviceTypeRepository) List(ctx context.Context) ([]DeviceType, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, type, information_type, created_at, updated_at FROM device_types ORDER BY type")
	if err != nil {
		return nil, fmt.Errorf("querying device types: %w", err)
	}
	defer rows.Close()

	var types []DeviceType
	for rows.Next() {
		dt, err := scanDeviceType(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device type: %w", err)
		}
		types = append(types, *dt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device types: %w", err)
	}
	return types, nil
}

// Create inserts a new device type and sets its generated ID.
func (r *SQLiteDeviceTypeRepository) Create(ctx context.Context, dt *DeviceType) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO device_types (type, information_type, created_at, updated_at) VALUES (?, ?, ?, ?)",
		dt.Type, dt.InformationType, nowUTC(), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting device type: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading device type id: %w", err)
	}
	dt.ID = id
	return nil
}

// Update modifies an existing device type.
func (r *SQLiteDeviceTypeRepository) Update(ctx context.Context, dt *DeviceType) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE device_types SET type = ?, information_type = ?, updated_at = ? WHERE id = ?",
		dt.Type, dt.InformationType, nowUTC(), dt.ID,
	)
	if err != nil {
		return fmt.Errorf("updating device type: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDeviceTypeNotFound
	}
	return nil
}

// Delete removes a device type. The devices.device_type_id RESTRICT
// constraint turns a delete of a referenced type into ErrDeviceTypeInUse.
func (r *SQLiteDeviceTypeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM device_types WHERE id = ?", id)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return ErrDeviceTypeInUse
		}
		return fmt.Errorf("deleting device type: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDeviceTypeNotFound
	}
	return nil
}
