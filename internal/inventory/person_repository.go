package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hollis-dev/homeinv-core/internal/auth"
)

// PersonRepository defines persistence operations for people and their
// device assignments.
type PersonRepository interface {
	// GetByID retrieves a person by id.
	// Returns ErrPersonNotFound if no such person exists.
	GetByID(ctx context.Context, id int64) (*Person, error)

	// GetByEmail retrieves a person by email address.
	// Returns ErrPersonNotFound if no such person exists.
	GetByEmail(ctx context.Context, email string) (*Person, error)

	// List retrieves all people ordered by surname, name.
	List(ctx context.Context) ([]Person, error)

	// Count returns the number of person records.
	Count(ctx context.Context) (int, error)

	// Create inserts a new person and sets its generated ID.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, p *Person) error

	// Update modifies an existing person.
	// Returns ErrPersonNotFound if the person does not exist and
	// ErrEmailExists on an email collision.
	Update(ctx context.Context, p *Person) error

	// Delete removes a person and all of their device assignments in a
	// single transaction. Returns ErrPersonNotFound if the person does
	// not exist.
	Delete(ctx context.Context, id int64) error

	// DeviceIDs returns the ids of devices assigned to a person.
	DeviceIDs(ctx context.Context, personID int64) ([]int64, error)

	// ReplaceDevices atomically replaces a person's assignment set.
	// Returns ErrPersonNotFound for an unknown person and
	// ErrDeviceNotFound if any device id does not exist.
	ReplaceDevices(ctx context.Context, personID int64, deviceIDs []int64) error
}

// SQLitePersonRepository implements PersonRepository using SQLite.
type SQLitePersonRepository struct {
	db *sql.DB
}

// NewSQLitePersonRepository creates a SQLite-backed person repository.
func NewSQLitePersonRepository(db *sql.DB) *SQLitePersonRepository {
	return &SQLitePersonRepository{db: db}
}

const personColumns = "id, name, surname, email, password_hash, role, created_at, updated_at"

// scanPerson scans one person row.
func scanPerson(row scanner) (*Person, error) {
	var p Person
	var role, createdAt, updatedAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Surname, &p.Email, &p.PasswordHash, &role, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Role = auth.Role(role)
	p.CreatedAt = parseTimestamp(createdAt)
	p.UpdatedAt = parseTimestamp(updatedAt)
	return &p, nil
}

// GetByID retrieves a person by id.
func (r *SQLitePersonRepository) GetByID(ctx context.Context, id int64) (*Person, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM people WHERE id = ?", id)

	p, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("querying person by id: %w", err)
	}
	return p, nil
}

// GetByEmail retrieves a person by email address.
func (r *SQLitePersonRepository) GetByEmail(ctx context.Context, email string) (*Person, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM people WHERE email = ?", email)

	p, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPersonNotFound
		}
		return nil, fmt.Errorf("querying person by email: %w", err)
	}
	return p, nil
}

// List retrieves all people ordered by surname, name.
func (r *SQLitePersonRepository) List(ctx context.Context) ([]Person, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+personColumns+" FROM people ORDER BY surname, name")
	if err != nil {
		return nil, fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		people = append(people, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating people: %w", err)
	}
	return people, nil
}

// Count returns the number of person records.
func (r *SQLitePersonRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM people").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting people: %w", err)
	}
	return count, nil
}

// Create inserts a new person and sets its generated ID.
func (r *SQLitePersonRepository) Create(ctx context.Context, p *Person) error {
	if p.Role == "" {
		p.Role = auth.RoleUser
	}

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO people (name, surname, email, password_hash, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Surname, p.Email, p.PasswordHash, string(p.Role), nowUTC(), nowUTC(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("inserting person: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading person id: %w", err)
	}
	p.ID = id
	return nil
}

// Update modifies an existing person.
func (r *SQLitePersonRepository) Update(ctx context.Context, p *Person) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE people
		SET name = ?, surname = ?, email = ?, password_hash = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		p.Name, p.Surname, p.Email, p.PasswordHash, string(p.Role), nowUTC(), p.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("updating person: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPersonNotFound
	}
	return nil
}

// Delete removes a person and all of their device assignments atomically.
// Assignments are cleared first so the devices themselves survive untouched.
func (r *SQLitePersonRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting delete transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM person_devices WHERE person_id = ?", id); err != nil {
		return fmt.Errorf("clearing device assignments: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPersonNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing person delete: %w", err)
	}
	return nil
}

// DeviceIDs returns the ids of devices assigned to a person.
func (r *SQLitePersonRepository) DeviceIDs(ctx context.Context, personID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT device_id FROM person_devices WHERE person_id = ? ORDER BY device_id", personID)
	if err != nil {
		return nil, fmt.Errorf("querying device assignments: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning device assignment: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device assignments: %w", err)
	}
	return ids, nil
}

// ReplaceDevices atomically replaces a person's assignment set.
func (r *SQLitePersonRepository) ReplaceDevices(ctx context.Context, personID int64, deviceIDs []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting assignment transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM people WHERE id = ?", personID).Scan(&exists); err != nil {
		return fmt.Errorf("checking person exists: %w", err)
	}
	if exists == 0 {
		return ErrPersonNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM person_devices WHERE person_id = ?", personID); err != nil {
		return fmt.Errorf("clearing device assignments: %w", err)
	}

	for _, deviceID := range deviceIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO person_devices (person_id, device_id) VALUES (?, ?)",
			personID, deviceID,
		); err != nil {
			if isForeignKeyConstraintError(err) {
				return ErrDeviceNotFound
			}
			return fmt.Errorf("inserting device assignment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing assignment update: %w", err)
	}
	return nil
}
