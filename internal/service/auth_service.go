package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"traininglog/api/internal/models"
	"traininglog/api/internal/repository"
	"traininglog/api/internal/security"
)

type AuthService struct {
	users  repository.Collection[models.User]
	tokens *security.TokenIssuer
	params security.Argon2Params
	log    zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

type AuthOption func(*AuthService)

// WithHashParams overrides the argon2id cost used for new password hashes.
func WithHashParams(params security.Argon2Params) AuthOption {
	return func(s *AuthService) {
		s.params = params
	}
}

func NewAuthService(
	users repository.Collection[models.User],
	tokens *security.TokenIssuer,
	log zerolog.Logger,
	opts ...AuthOption,
) *AuthService {
	s := &AuthService{
		users:  users,
		tokens: tokens,
		params: security.DefaultArgon2Params,
		log:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type AuthResult struct {
	AccessToken string
	Email       string
}

// Register stores a new user under the exact email given.
func (s *AuthService) Register(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return ErrMissingField
	}

	if _, err := s.users.FindOne(ctx, repository.ByOwner(email)); err == nil {
		return ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}

	passwordHash, err := security.HashPasswordWithParams(password, s.params)
	if err != nil {
		return err
	}

	if _, err := s.users.Insert(ctx, email, models.User{PasswordHash: passwordHash}); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("email", email).Msg("user registered")
	return nil
}

// Authenticate returns ErrBadCredentials for an unknown email and for a wrong
// password alike. Unknown emails still pay for one hash verification.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (string, error) {
	record, err := s.users.FindOne(ctx, repository.ByOwner(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_, _ = security.VerifyPassword(password, s.fallbackHash())
			return "", ErrBadCredentials
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := security.VerifyPassword(password, record.Doc.PasswordHash)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("stored password hash unreadable")
		return "", ErrBadCredentials
	}
	if !ok {
		return "", ErrBadCredentials
	}
	return record.Owner, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	identity, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.tokens.Issue(identity)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{AccessToken: token, Email: identity}, nil
}

func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := security.HashPasswordWithParams("unused-password", s.params)
		if err != nil {
			s.log.Warn().Err(err).Msg("fallback hash generation failed")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
