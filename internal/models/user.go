package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	AuthProvider string
	AvatarURL    string
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can sign in with a password.
// Accounts created through an external identity provider have none.
func (u *User) HasPassword() bool {
	return u.AuthProvider != AuthProviderGoogle && u.PasswordHash != ""
}

// Identity is the minimal view of a user attached to authenticated requests.
type Identity struct {
	ID        string
	SessionID string
	Email     string
	Name      string
}

func ParseUserName(s string) (string, error) {
	name := strings.TrimSpace(s)
	if name == "" {
		return "", NewValidationError("name", "is required")
	}
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		return "", NewValidationError("name", "must be between 2 and 100 characters")
	}
	return name, nil
}

// ParseEmail trims and lower-cases the address so that lookups and the
// uniqueness constraint are case-insensitive. The format itself is checked
// by the request binder.
func ParseEmail(s string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(s))
	if email == "" {
		return "", NewValidationError("email", "is required")
	}
	return email, nil
}

func ParseBio(s string) (string, error) {
	bio := strings.TrimSpace(s)
	if utf8.RuneCountInString(bio) > 500 {
		return "", NewValidationError("bio", "must be at most 500 characters")
	}
	return bio, nil
}
