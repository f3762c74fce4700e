// Package identity verifies ID tokens of external identity providers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/adanyl0v/taskflow/internal/config"
	"github.com/adanyl0v/taskflow/internal/services"
)

const verifyTimeout = 5 * time.Second

var errMissingSubject = errors.New("token missing user id")

type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseVerifier checks Firebase ID tokens, as issued to the web client
// after a Google sign-in.
type FirebaseVerifier struct {
	logger zerolog.Logger
	client idTokenVerifier
}

var _ services.IdentityVerifier = (*FirebaseVerifier)(nil)

func NewFirebaseVerifier(ctx context.Context, logger zerolog.Logger, cfg config.FirebaseConfig) (*FirebaseVerifier, error) {
	var opt option.ClientOption
	if cfg.CredentialsJSON != "" {
		opt = option.WithCredentialsJSON([]byte(cfg.CredentialsJSON))
	} else {
		opt = option.WithCredentialsFile(cfg.CredentialsFile)
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase auth client: %w", err)
	}
	return newFirebaseVerifier(logger, client), nil
}

func newFirebaseVerifier(logger zerolog.Logger, client idTokenVerifier) *FirebaseVerifier {
	return &FirebaseVerifier{
		logger: logger,
		client: client,
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*services.ExternalIdentity, error) {
	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		v.logger.Debug().
			Err(err).
			Msg("firebase token verification failed")
		return nil, fmt.Errorf("failed to verify id token: %w", err)
	}
	if token.UID == "" {
		return nil, errMissingSubject
	}

	return &services.ExternalIdentity{
		Subject:       token.UID,
		Email:         stringClaim(token.Claims, "email"),
		EmailVerified: boolClaim(token.Claims, "email_verified"),
		Name:          stringClaim(token.Claims, "name"),
		AvatarURL:     stringClaim(token.Claims, "picture"),
	}, nil
}

func stringClaim(claims map[string]any, key string) string {
	value, _ := claims[key].(string)
	return value
}

func boolClaim(claims map[string]any, key string) bool {
	value, _ := claims[key].(bool)
	return value
}
