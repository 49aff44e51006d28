package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// RoomRepository defines persistence operations for rooms.
type RoomRepository interface {
	// GetByID retrieves a room by id.
	// Returns ErrRoomNotFound if no such room exists.
	GetByID(ctx context.Context, id int64) (*Room, error)

	// List retrieves all rooms ordered by name.
	List(ctx context.Context) ([]Room, error)

	// ListWithDeviceCounts returns every room with its total device count.
	ListWithDeviceCounts(ctx context.Context) ([]RoomDeviceCount, error)

	// ListForPerson returns the rooms containing devices assigned to the
	// person, each with the count of that person's devices in it. A person
	// with no assignments gets an empty slice.
	ListForPerson(ctx context.Context, personID int64) ([]RoomDeviceCount, error)

	// Create inserts a new room and sets its generated ID.
	Create(ctx context.Context, room *Room) error

	// Update modifies an existing room.
	// Returns ErrRoomNotFound if the room does not exist.
	Update(ctx context.Context, room *Room) error

	// Delete removes a room.
	// Returns ErrRoomNotFound if the room does not exist and ErrRoomInUse
	// if devices still reference it.
	Delete(ctx context.Context, id int64) error
}

// SQLiteRoomRepository implements RoomRepository using SQLite.
type SQLiteRoomRepository struct {
	db *sql.DB
}

// NewSQLiteRoomRepository creates a SQLite-backed room repository.
func NewSQLiteRoomRepository(db *sql.DB) *SQLiteRoomRepository {
	return &SQLiteRoomRepository{db: db}
}

// scanRoom scans one room row.
func scanRoom(row scanner) (*Room, error) {
	var room Room
	var createdAt, updatedAt string
	if err := row.Scan(&room.ID, &room.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	room.CreatedAt = parseTimestamp(createdAt)
	room.UpdatedAt = parseTimestamp(updatedAt)
	return &room, nil
}

// GetByID retrieves a room by id.
func (r *SQLiteRoomRepository) GetByID(ctx context.Context, id int64) (*Room, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, name, created_at, updated_at FROM rooms WHERE id = ?", id)

	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("querying room by id: %w", err)
	}
	return room, nil
}

// List retrieves all rooms ordered by name.
func (r *SQLiteRoomRepository) List(ctx context.Context) ([]Room, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, created_at, updated_at FROM rooms ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		rooms = append(rooms, *room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rooms: %w", err)
	}
	return rooms, nil
}

// ListWithDeviceCounts returns every room with its total device count.
func (r *SQLiteRoomRepository) ListWithDeviceCounts(ctx context.Context) ([]RoomDeviceCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.name, COUNT(d.id)
		FROM rooms r
		LEFT JOIN devices d ON d.room_id = r.id
		GROUP BY r.id, r.name
		ORDER BY r.name`)
	if err != nil {
		return nil, fmt.Errorf("querying room device counts: %w", err)
	}
	defer rows.Close()

	return collectRoomCounts(rows)
}

// ListForPerson returns the rooms holding the person's assigned devices.
func (r *SQLiteRoomRepository) ListForPerson(ctx context.Context, personID int64) ([]RoomDeviceCount, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.name, COUNT(d.id)
		FROM rooms r
		JOIN devices d ON d.room_id = r.id
		JOIN person_devices pd ON pd.device_id = d.id
		WHERE pd.person_id = ?
		GROUP BY r.id, r.name
		ORDER BY r.name`, personID)
	if err != nil {
		return nil, fmt.Errorf("querying person rooms: %w", err)
	}
	defer rows.Close()

	return collectRoomCounts(rows)
}

// collectRoomCounts drains a (id, name, count) result set.
func collectRoomCounts(rows *sql.Rows) ([]RoomDeviceCount, error) {
	var counts []RoomDeviceCount
	for rows.Next() {
		var rc RoomDeviceCount
		if err := rows.Scan(&rc.RoomID, &rc.Name, &rc.DeviceCount); err != nil {
			return nil, fmt.Errorf("scanning room count: %w", err)
		}
		counts = append(counts, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating room counts: %w", err)
	}
	return counts, nil
}

// Create inserts a new room and sets its generated ID.
func (r *SQLiteRoomRepository) Create(ctx context.Context, room *Room) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (name, created_at, updated_at) VALUES (?, ?, ?)",
		room.Name, nowUTC(), nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting room: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading room id: %w", err)
	}
	room.ID = id
	return nil
}

// Update modifies an existing room.
func (r *SQLiteRoomRepository) Update(ctx context.Context, room *Room) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE rooms SET name = ?, updated_at = ? WHERE id = ?",
		room.Name, nowUTC(), room.ID,
	)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete removes a room. The devices.room_id RESTRICT constraint turns a
// delete of an occupied room into ErrRoomInUse.
func (r *SQLiteRoomRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM rooms WHERE id = ?", id)
	if err != nil {
		if isForeignKeyConstraintError(err) {
			return ErrRoomInUse
		}
		return fmt.Errorf("deleting room: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrRoomNotFound
	}
	return nil
}
