package sqlite

import "strings"

// isUniqueViolation reports whether err came from a UNIQUE constraint
// failure. modernc.org/sqlite surfaces SQLite's own error text rather than
// a typed error with a stable code across the versions this module tracks,
// so matching the driver's message is the most portable check.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyViolation reports whether err came from a FOREIGN KEY
// constraint failure (e.g. inserting a word against a deleted wordbook).
func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
