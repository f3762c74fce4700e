package services

import (
	"fmt"

	"github.com/google/uuid"
)

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

// isValidID reports whether id can name a stored record. Malformed ids are
// answered with the not found error of the resource.
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
