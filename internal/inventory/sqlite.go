package inventory

import (
	"strings"
	"time"
)

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// isUniqueConstraintError reports whether err is a SQLite UNIQUE violation.
// go-sqlite3 does not export typed constraint errors, so match the message.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyConstraintError reports whether err is a SQLite FK violation.
func isForeignKeyConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// boolToInt converts a bool to the INTEGER representation SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseTimestamp parses a stored RFC3339 timestamp.
// The format is controlled by this package, so parse errors are ignored.
func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s) //nolint:errcheck // format is controlled
	return t
}

// nowUTC returns the current time formatted for storage.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}
