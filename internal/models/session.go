package models

import "time"

// Session is one signed-in device. The refresh token is only kept as a hash.
type Session struct {
	ID               string
	UserID           string
	RefreshTokenHash string
	UserAgent        string
	IPAddress        string
	IsActive         bool
	LastActivityAt   time.Time
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsValid reports whether the session is neither revoked nor expired.
func (s *Session) IsValid(now time.Time) bool {
	return s.IsActive && now.Before(s.ExpiresAt)
}
