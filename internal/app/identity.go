package app

import (
	"context"

	"github.com/adanyl0v/taskflow/internal/identity"
)

// MustInitIdentityProvider enables Google sign-in when Firebase
// credentials are configured.
func (a *App) MustInitIdentityProvider() {
	if !a.cfg.Firebase.Enabled() {
		a.logger.Info().Msg("firebase credentials not set, google sign-in disabled")
		return
	}

	verifier, err := identity.NewFirebaseVerifier(context.Background(), a.logger, a.cfg.Firebase)
	if err != nil {
		a.logger.Error().
			Err(err).
			Msg("failed to init firebase")
		panic(err)
	}
	a.verifier = verifier
	a.logger.Info().Msg("initialized firebase identity provider")
}
