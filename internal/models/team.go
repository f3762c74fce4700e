package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Team struct {
	ID        string
	OwnerID   string
	Name      string
	MemberIDs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func ParseTeamName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", NewValidationError("name", "is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return "", NewValidationError("name", "must be at most 100 characters")
	}
	return name, nil
}
