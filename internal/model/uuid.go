package model

import "github.com/google/uuid"

// GenerateGUID creates a new GUID string for a bookmark node.
func GenerateGUID() string {
	return uuid.New().String()
}

// ValidGUID reports whether s parses as a UUID.
func ValidGUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
