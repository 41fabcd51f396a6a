package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/crypto/bcrypt"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(_ string, _ ...any) {}
func (m *mockLogger) Info(_ string, _ ...any)  {}
func (m *mockLogger) Warn(_ string, _ ...any)  {}
func (m *mockLogger) Error(_ string, _ ...any) {}
func (m *mockLogger) With(_ ...any) types.Logger {
	return m
}
func (m *mockLogger) WithModule(_ string) types.Logger {
	return m
}
func (m *mockLogger) WithError(_ error) types.Logger {
	return m
}

func newTestService(t *testing.T, password string) *Service {
	t.Helper()
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)
	hash, err := hasher.Hash(password)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	svc, err := NewService(hash, hasher, NewJWTManager(testJWTConfig()))
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestService_Login(t *testing.T) {
	svc := newTestService(t, DefaultPassword)
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "correct password", password: "Ad123###", wantErr: nil},
		{name: "wrong password", password: "Ad123##", wantErr: ErrInvalidPassword},
		{name: "empty password", password: "", wantErr: ErrInvalidPassword},
		{name: "surrounding spaces", password: " Ad123### ", wantErr: ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, err := svc.Login(ctx, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Login() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if session.TokenType != "Bearer" {
				t.Errorf("TokenType = %v, want Bearer", session.TokenType)
			}
			if _, err := svc.ValidateToken(ctx, session.AccessToken); err != nil {
				t.Errorf("ValidateToken() error = %v", err)
			}
		})
	}
}

func TestErrInvalidPasswordMessage(t *testing.T) {
	if got := ErrInvalidPassword.Error(); got != "كلمة المرور غير صحيحة" {
		t.Errorf("ErrInvalidPassword = %q", got)
	}
}

func TestNewService_RejectsPlainPassword(t *testing.T) {
	if _, err := NewService(DefaultPassword, NewPasswordHasher(), NewJWTManager(testJWTConfig())); err == nil {
		t.Error("NewService() should reject a non-bcrypt hash")
	}
}

func TestModule_StartAndHandlers(t *testing.T) {
	ctx := context.Background()
	m := NewModule(Config{
		Password:   "s3cret",
		JWTSecret:  "module-secret",
		BcryptCost: bcrypt.MinCost,
	}, &mockLogger{})

	if h := m.Health(ctx); h.Healthy {
		t.Error("Health() should be unhealthy before Start")
	}
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer m.Stop(ctx)

	if h := m.Health(ctx); !h.Healthy {
		t.Errorf("Health() = %+v, want healthy", h)
	}

	rejected, err := m.handleLogin(ctx, LoginRequest{Password: DefaultPassword}, nil)
	if err != nil {
		t.Fatalf("handleLogin() error = %v", err)
	}
	if rejected.Error != ErrInvalidPassword.Error() || rejected.AccessToken != "" {
		t.Errorf("handleLogin() = %+v, want rejection", rejected)
	}

	accepted, err := m.handleLogin(ctx, LoginRequest{Password: "s3cret"}, nil)
	if err != nil {
		t.Fatalf("handleLogin() error = %v", err)
	}
	if accepted.AccessToken == "" || accepted.Error != "" {
		t.Fatalf("handleLogin() = %+v, want token", accepted)
	}

	valid, err := m.handleValidateToken(ctx, ValidateTokenRequest{Token: accepted.AccessToken}, nil)
	if err != nil {
		t.Fatalf("handleValidateToken() error = %v", err)
	}
	if !valid.Valid || valid.Subject != adminSubject || valid.ExpiresAt == 0 {
		t.Errorf("handleValidateToken() = %+v, want valid", valid)
	}

	invalid, err := m.handleValidateToken(ctx, ValidateTokenRequest{Token: "garbage"}, nil)
	if err != nil {
		t.Fatalf("handleValidateToken() error = %v", err)
	}
	if invalid.Valid || invalid.Error != ErrInvalidToken.Error() {
		t.Errorf("handleValidateToken() = %+v, want invalid", invalid)
	}
}

func TestModule_ConfiguredHashWins(t *testing.T) {
	ctx := context.Background()
	hash, err := NewPasswordHasherWithCost(bcrypt.MinCost).Hash("from-hash")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	m := NewModule(Config{PasswordHash: hash, Password: "ignored"}, &mockLogger{})
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if _, err := m.Service().Login(ctx, "ignored"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Login(plain) error = %v, want %v", err, ErrInvalidPassword)
	}
	if _, err := m.Service().Login(ctx, "from-hash"); err != nil {
		t.Errorf("Login(hash) error = %v", err)
	}
}

func TestModule_InvalidHashFailsStart(t *testing.T) {
	m := NewModule(Config{PasswordHash: "not-a-hash"}, &mockLogger{})
	if err := m.Start(context.Background()); err == nil {
		t.Error("Start() should fail for an invalid password hash")
	}
}
