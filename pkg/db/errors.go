package db

import "strings"

// IsUniqueViolation reports whether the provided error references a Postgres
// unique violation. When constraintName is provided, the helper looks for the
// constraint text in the error message, which also covers sqlite in tests.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether the provided error references a
// Postgres foreign key violation. When constraintName is provided, the helper
// looks for the constraint text in the error message, which also covers sqlite
// in tests.
func IsForeignKeyViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && strings.Contains(msg, constraintName) {
		return true
	}
	return strings.Contains(msg, "violates foreign key constraint") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed")
}
