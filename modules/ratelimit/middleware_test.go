package ratelimit

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestMiddleware_ByIP(t *testing.T) {
	_, client := newTestClient(t)
	mw := NewMiddleware(client, "test:", &mockLogger{})

	app := fiber.New()
	app.Post("/login", mw.ByIP("login", Config{RequestsPerWindow: 3, WindowSize: time.Minute}), func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Post("/other", mw.ByIP("other", Config{RequestsPerWindow: 3, WindowSize: time.Minute}), func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "3", resp.Header.Get("X-RateLimit-Limit"))
		assert.NotEmpty(t, resp.Header.Get("X-RateLimit-Reset"))
	}

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Too Many Requests", body["error"])
	assert.GreaterOrEqual(t, body["retry_after"], float64(1))

	// Scopes do not share a window.
	resp, err = app.Test(httptest.NewRequest("POST", "/other", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMiddleware_FailsOpen(t *testing.T) {
	mr, client := newTestClient(t)
	mw := NewMiddleware(client, "test:", &mockLogger{})

	app := fiber.New()
	app.Get("/", mw.ByIP("any", Config{RequestsPerWindow: 1, WindowSize: time.Minute}), func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	mr.Close()

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "unavailable", resp.Header.Get("X-RateLimit-Error"))
	}
}

func TestModule_Lifecycle(t *testing.T) {
	mr, _ := newTestClient(t)
	m := NewModule(mr.Addr(), "test:", &mockLogger{})

	assert.Equal(t, "ratelimit", m.Name())
	assert.Nil(t, m.Middleware())
	assert.False(t, m.Health(t.Context()).Healthy)

	require.NoError(t, m.Start(t.Context()))
	assert.NotNil(t, m.Middleware())
	assert.True(t, m.Health(t.Context()).Healthy)
	require.NoError(t, m.Stop(t.Context()))
}

func TestModule_StartFailsWithoutRedis(t *testing.T) {
	mr, _ := newTestClient(t)
	addr := mr.Addr()
	mr.Close()

	m := NewModule(addr, "test:", &mockLogger{})
	assert.Error(t, m.Start(t.Context()))
}
