package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// Config holds the admin gate settings.
type Config struct {
	// PasswordHash is a bcrypt hash. It takes precedence over Password.
	PasswordHash string
	// Password is hashed at startup when PasswordHash is empty.
	Password  string
	JWTSecret string
	TokenTTL  time.Duration
	// BcryptCost is used only when hashing Password. Zero means DefaultBcryptCost.
	BcryptCost int
}

// Module provides the admin gate as request-reply services.
type Module struct {
	config  Config
	service *Service
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates an admin module.
func NewModule(config Config, logger types.Logger) *Module {
	return &Module{config: config, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "admin"
}

// Start prepares the password hash and the token manager.
func (m *Module) Start(_ context.Context) error {
	hasher := NewPasswordHasher()
	if m.config.BcryptCost != 0 {
		hasher = NewPasswordHasherWithCost(m.config.BcryptCost)
	}

	hash := strings.TrimSpace(m.config.PasswordHash)
	if hash == "" {
		password := m.config.Password
		if password == "" {
			password = DefaultPassword
			m.logger.Warn("Admin password not configured, using the default password")
		}
		h, err := hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		hash = h
	}

	jwtConfig := DefaultJWTConfig()
	jwtConfig.SecretKey = m.config.JWTSecret
	if m.config.TokenTTL > 0 {
		jwtConfig.TokenDuration = m.config.TokenTTL
	}
	if jwtConfig.SecretKey == "" {
		// Sessions do not survive a restart without a configured secret.
		jwtConfig.SecretKey = uuid.NewString() + uuid.NewString()
		m.logger.Warn("JWT_SECRET not set, using an ephemeral signing key")
	}

	svc, err := NewService(hash, hasher, NewJWTManager(jwtConfig))
	if err != nil {
		return err
	}
	m.service = svc

	m.logger.Info("Module started", "token_ttl", jwtConfig.TokenDuration)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Service returns the admin service. It is nil until Start.
func (m *Module) Service() *Service {
	return m.service
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}

// RegisterServices registers the admin-login and validate-admin-token services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"admin-login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register admin-login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-admin-token",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-admin-token service: %w", err)
	}

	m.logger.Info("Registered services", "services", "admin-login, validate-admin-token")
	return nil
}

func (m *Module) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	if m.service == nil {
		return LoginResponse{}, errors.New("admin module not started")
	}

	session, err := m.service.Login(ctx, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			m.logger.Warn("Admin login rejected")
			return LoginResponse{Error: err.Error()}, nil
		}
		return LoginResponse{}, err
	}

	m.logger.Info("Admin logged in")
	return LoginResponse{
		AccessToken: session.AccessToken,
		ExpiresIn:   session.ExpiresIn,
		TokenType:   session.TokenType,
	}, nil
}

func (m *Module) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	if m.service == nil {
		return ValidateTokenResponse{}, errors.New("admin module not started")
	}

	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		return ValidateTokenResponse{Valid: false, Error: err.Error()}, nil
	}

	resp := ValidateTokenResponse{Valid: true, Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		resp.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return resp, nil
}
