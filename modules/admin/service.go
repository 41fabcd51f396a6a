// Package admin guards the store management operations with a single
// bcrypt-hashed password and short-lived JWT sessions.
package admin

import (
	"context"
	"errors"
	"fmt"
)

// DefaultPassword is the admin password used when none is configured.
const DefaultPassword = "Ad123###"

// ErrInvalidPassword is returned for a wrong admin password. Its text is
// shown to the user as is.
var ErrInvalidPassword = errors.New("كلمة المرور غير صحيحة")

// Session is an issued admin session token.
type Session struct {
	AccessToken string
	ExpiresIn   int64
	TokenType   string
}

// Service verifies the admin password and admin session tokens.
type Service struct {
	passwordHash string
	hasher       *PasswordHasher
	jwt          *JWTManager
}

// NewService creates an admin service for the given bcrypt hash.
func NewService(passwordHash string, hasher *PasswordHasher, jwt *JWTManager) (*Service, error) {
	if !IsHash(passwordHash) {
		return nil, errors.New("admin password hash is not a bcrypt hash")
	}
	return &Service{
		passwordHash: passwordHash,
		hasher:       hasher,
		jwt:          jwt,
	}, nil
}

// Login checks password and issues a session token.
func (s *Service) Login(_ context.Context, password string) (*Session, error) {
	if password == "" || !s.hasher.Verify(password, s.passwordHash) {
		return nil, ErrInvalidPassword
	}

	token, err := s.jwt.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &Session{
		AccessToken: token,
		ExpiresIn:   s.jwt.TokenDuration(),
		TokenType:   "Bearer",
	}, nil
}

// ValidateToken checks an admin session token.
func (s *Service) ValidateToken(_ context.Context, token string) (*JWTClaims, error) {
	return s.jwt.ValidateToken(token)
}
