package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AdminPort is the admin functionality other modules use.
type AdminPort interface {
	Login(ctx context.Context, password string) (*Session, error)
	ValidateToken(ctx context.Context, token string) error
}

// Adapter implements AdminPort over the admin service container.
type Adapter struct {
	container mono.ServiceContainer
}

var _ AdminPort = (*Adapter)(nil)

// NewAdapter creates an Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

// Login exchanges the admin password for a session token.
func (a *Adapter) Login(ctx context.Context, password string) (*Session, error) {
	req := LoginRequest{Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"admin-login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("admin-login request failed: %w", err)
	}

	if resp.Error != "" {
		if resp.Error == ErrInvalidPassword.Error() {
			return nil, ErrInvalidPassword
		}
		return nil, errors.New(resp.Error)
	}

	return &Session{
		AccessToken: resp.AccessToken,
		ExpiresIn:   resp.ExpiresIn,
		TokenType:   resp.TokenType,
	}, nil
}

// ValidateToken checks an admin session token.
func (a *Adapter) ValidateToken(ctx context.Context, token string) error {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-admin-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return fmt.Errorf("validate-admin-token request failed: %w", err)
	}

	if !resp.Valid {
		if resp.Error == ErrExpiredToken.Error() {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	return nil
}
