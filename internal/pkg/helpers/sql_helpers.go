package helpers

import "database/sql"

// GetContentNullString converts a string value to sql.NullString.
// An empty string maps to an empty NullString, which binds as NULL.
func GetContentNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
