package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskflow/internal/models"
	"github.com/adanyl0v/taskflow/internal/security"
	"github.com/adanyl0v/taskflow/internal/storage"
)

type authServiceImpl struct {
	logger          zerolog.Logger
	users           storage.UserRepository
	sessions        storage.SessionRepository
	hasher          *security.PasswordHasher
	tokens          *security.TokenIssuer
	refreshTokenTTL time.Duration
	verifier        IdentityVerifier
	now             func() time.Time
}

// NewAuthService returns an AuthService. verifier may be nil, in which case
// LoginWithIdentityProvider returns ErrIdentityProviderDisabled.
func NewAuthService(
	logger zerolog.Logger,
	users storage.UserRepository,
	sessions storage.SessionRepository,
	hasher *security.PasswordHasher,
	tokens *security.TokenIssuer,
	refreshTokenTTL time.Duration,
	verifier IdentityVerifier,
) AuthService {
	return &authServiceImpl{
		logger:          logger,
		users:           users,
		sessions:        sessions,
		hasher:          hasher,
		tokens:          tokens,
		refreshTokenTTL: refreshTokenTTL,
		verifier:        verifier,
		now:             time.Now,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	name, err := models.ParseUserName(params.Name)
	if err != nil {
		return nil, err
	}
	email, err := models.ParseEmail(params.Email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	user := &models.User{
		Name:         name,
		Email:        email,
		AuthProvider: models.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user id")
		return nil, err
	}

	user.PasswordHash, err = s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}

	err = s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			s.logger.Debug().
				Str("email", user.Email).
				Msg("email already registered")
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := s.startSession(ctx, user, params.Client)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered user")
	return result, nil
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	email, err := models.ParseEmail(params.Email)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().
				Str("email", email).
				Msg("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	if !user.HasPassword() {
		s.logger.Debug().
			Str("user_id", user.ID).
			Msg("password login for external account")
		return nil, ErrInvalidCredentials
	}

	match, err := s.hasher.Verify(params.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to compare password")
		return nil, err
	} else if !match {
		s.logger.Debug().
			Str("user_id", user.ID).
			Msg("passwords do not match")
		return nil, ErrInvalidCredentials
	}

	result, err := s.startSession(ctx, user, params.Client)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", result.SessionID).
		Msg("logged in")
	return result, nil
}

func (s *authServiceImpl) LoginWithIdentityProvider(ctx context.Context, params IdentityLoginParams) (*AuthResult, error) {
	if s.verifier == nil {
		return nil, ErrIdentityProviderDisabled
	}
	if params.IDToken == "" {
		return nil, models.NewValidationError("idToken", "is required")
	}

	external, err := s.verifier.Verify(ctx, params.IDToken)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("rejected external id token")
		return nil, ErrInvalidCredentials
	}
	if !external.EmailVerified {
		s.logger.Debug().
			Str("subject", external.Subject).
			Msg("external account email is not verified")
		return nil, ErrUnverifiedExternalAccount
	}

	email, err := models.ParseEmail(external.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		user, err = s.createExternalUser(ctx, email, external)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	result, err := s.startSession(ctx, user, params.Client)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Str("provider", models.AuthProviderGoogle).
		Msg("logged in")
	return result, nil
}

func (s *authServiceImpl) createExternalUser(ctx context.Context, email string, external *ExternalIdentity) (*models.User, error) {
	name, err := models.ParseUserName(external.Name)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Str("subject", external.Subject).
			Msg("external display name rejected, using email")
		name = email
	}

	now := s.now()
	user := &models.User{
		Name:         name,
		Email:        email,
		AuthProvider: models.AuthProviderGoogle,
		AvatarURL:    external.AvatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user id")
		return nil, err
	}

	err = s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			// Lost a race with a concurrent first sign-in.
			return s.users.GetUserByEmail(ctx, email)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Msg("registered external user")
	return user, nil
}

func (s *authServiceImpl) Refresh(ctx context.Context, params RefreshParams) (*AuthResult, error) {
	if params.RefreshToken == "" {
		return nil, models.NewValidationError("refreshToken", "is required")
	}

	session, err := s.sessions.GetSessionByRefreshTokenHash(ctx, security.HashRefreshToken(params.RefreshToken))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().Msg("unknown refresh token")
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get session by refresh token: %w", err)
	}

	now := s.now()
	if !session.IsValid(now) {
		s.logger.Debug().
			Str("session_id", session.ID).
			Bool("active", session.IsActive).
			Time("expires_at", session.ExpiresAt).
			Msg("refresh of a dead session")
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	refreshToken, err := security.NewRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}

	session.RefreshTokenHash = security.HashRefreshToken(refreshToken)
	session.LastActivityAt = now
	session.ExpiresAt = now.Add(s.refreshTokenTTL)
	session.UpdatedAt = now
	err = s.sessions.UpdateSession(ctx, session)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	result, err := s.issue(user, session, refreshToken)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("user_id", user.ID).
		Str("session_id", session.ID).
		Msg("refreshed session")
	return result, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("rejected bearer token")
		return nil, ErrUnauthenticated
	}
	if !isValidID(claims.UserID) || !isValidID(claims.SessionID) {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.GetSessionByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get session by id: %w", err)
	}
	if session.UserID != claims.UserID || !session.IsValid(s.now()) {
		s.logger.Debug().
			Str("session_id", session.ID).
			Msg("token of a revoked session")
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Debug().
				Str("user_id", claims.UserID).
				Msg("token of a deleted user")
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &models.Identity{
		ID:        user.ID,
		SessionID: session.ID,
		Email:     user.Email,
		Name:      user.Name,
	}, nil
}

func (s *authServiceImpl) startSession(ctx context.Context, user *models.User, client ClientInfo) (*AuthResult, error) {
	refreshToken, err := security.NewRefreshToken()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate refresh token")
		return nil, err
	}

	now := s.now()
	session := &models.Session{
		UserID:           user.ID,
		RefreshTokenHash: security.HashRefreshToken(refreshToken),
		UserAgent:        client.UserAgent,
		IPAddress:        client.IPAddress,
		IsActive:         true,
		LastActivityAt:   now,
		ExpiresAt:        now.Add(s.refreshTokenTTL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	session.ID, err = newID()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate session id")
		return nil, err
	}

	err = s.sessions.CreateSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return s.issue(user, session, refreshToken)
}

func (s *authServiceImpl) issue(user *models.User, session *models.Session, refreshToken string) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Sign(user.ID, session.ID, user.Email, user.Name)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to sign token")
		return nil, err
	}
	return &AuthResult{
		UserID:                user.ID,
		SessionID:             session.ID,
		Name:                  user.Name,
		Email:                 user.Email,
		Token:                 token,
		ExpiresAt:             expiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
	}, nil
}
