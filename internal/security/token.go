package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload of a bearer token.
type Claims struct {
	UserID    string `json:"id"`
	SessionID string `json:"sid,omitempty"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	issuer     string
	signingKey []byte
	ttl        time.Duration
	now        func() time.Time
}

func NewTokenIssuer(issuer string, signingKey []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		issuer:     issuer,
		signingKey: signingKey,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Sign issues a bearer token bound to the given session.
func (i *TokenIssuer) Sign(userID, sessionID, email, name string) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate id: %w", err)
	}

	now := i.now()
	expiresAt := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		SessionID: sessionID,
		Email:     email,
		Name:      name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenUUID.String(),
			Issuer:    i.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, issuer and expiry of the token and returns
// its claims. Every failure wraps ErrInvalidToken.
func (i *TokenIssuer) Verify(token string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return i.signingKey, nil
		},
		jwt.WithIssuer(i.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := t.Claims.(*Claims)
	if !ok || claims.Subject == "" || claims.Subject != claims.UserID {
		return nil, fmt.Errorf("%w: malformed claims", ErrInvalidToken)
	}
	return claims, nil
}
