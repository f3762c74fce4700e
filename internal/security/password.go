package security

import (
	"fmt"

	"github.com/alexedwards/argon2id"
)

type PasswordHasher struct {
	params *argon2id.Params
}

// NewPasswordHasher returns an argon2id hasher. A nil params value
// selects argon2id.DefaultParams.
func NewPasswordHasher(params *argon2id.Params) *PasswordHasher {
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &PasswordHasher{params: params}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	if hash == "" {
		return false, nil
	}

	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil {
		return false, fmt.Errorf("failed to compare password: %w", err)
	}
	return match, nil
}
