// Package uuid generates the time-ordered identifiers used for request ids
// and client-side alert and confirmation ids.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. IDs generated later sort after earlier ones,
// which keeps alert trays and request logs in creation order.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Entropy failure; fall back to a random v4 rather than fail the caller.
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates s and returns its canonical form.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid checks if a string is a valid UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}

// Version returns the version nibble of s, or 0 when s is not a UUID.
func Version(s string) int {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return 0
	}
	return int(parsed.Version())
}
