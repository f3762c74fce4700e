package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const DefaultFolderColor = "#5c6bc0"

type Folder struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	IsPrivate bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func ParseFolderName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", NewValidationError("name", "is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return "", NewValidationError("name", "must be at most 100 characters")
	}
	return name, nil
}

// ParseFolderColor falls back to DefaultFolderColor for an empty value.
func ParseFolderColor(s string) (string, error) {
	color := strings.TrimSpace(s)
	if color == "" {
		return DefaultFolderColor, nil
	}
	if len(color) > 20 {
		return "", NewValidationError("color", "must be at most 20 characters")
	}
	return color, nil
}
