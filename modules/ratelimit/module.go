package ratelimit

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Module owns the Redis client used by the rate limiting middleware.
type Module struct {
	client     *redis.Client
	middleware *Middleware
	redisAddr  string
	keyPrefix  string
	logger     types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a rate limiting module.
func NewModule(redisAddr, keyPrefix string, logger types.Logger) *Module {
	return &Module{
		redisAddr: redisAddr,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "ratelimit"
}

// Start connects to Redis and prepares the middleware.
func (m *Module) Start(ctx context.Context) error {
	m.client = redis.NewClient(&redis.Options{
		Addr: m.redisAddr,
	})

	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	m.middleware = NewMiddleware(m.client, m.keyPrefix, m.logger)
	m.logger.Info("Module started", "redis", m.redisAddr)
	return nil
}

// Stop closes the Redis connection.
func (m *Module) Stop(_ context.Context) error {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Error("Error closing Redis connection", "error", err)
		}
	}
	m.logger.Info("Module stopped")
	return nil
}

// Middleware returns the rate limiting middleware. It is nil until Start.
func (m *Module) Middleware() *Middleware {
	return m.middleware
}

// Health pings Redis.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.client == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("redis ping failed: %v", err)}
	}
	return mono.HealthStatus{Healthy: true, Message: "operational"}
}
