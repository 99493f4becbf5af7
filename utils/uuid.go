package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns a new unique identifier string
func GenerateID() string {
	return uuid.New().String()
}

// ParseID normalizes a user supplied listing or bid id. Auction ids are UUIDs.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%q is not a valid id", s)
	}
	return id.String(), nil
}
