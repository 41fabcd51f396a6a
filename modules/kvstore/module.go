package kvstore

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/storage"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/storage/redis/v3"
)

const healthCheckKey = "__health_check__"

// PluginModule provides the key-value store as a mono plugin.
// Plugins start before and stop after regular modules.
type PluginModule struct {
	container types.ServiceContainer
	storage   storage.Storage
	store     Store
	redisAddr string
	prefix    string
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a Redis-backed plugin.
func NewPluginModule(redisAddr, prefix string, logger types.Logger) *PluginModule {
	return &PluginModule{
		redisAddr: redisAddr,
		prefix:    prefix,
		logger:    logger,
	}
}

// NewPluginModuleWithStorage creates a plugin over an existing storage backend.
func NewPluginModuleWithStorage(s storage.Storage, prefix string, logger types.Logger) *PluginModule {
	return &PluginModule{
		storage: s,
		prefix:  prefix,
		logger:  logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "kvstore"
}

// Start connects to Redis unless a storage backend was supplied, then checks
// the backend with one read.
func (m *PluginModule) Start(ctx context.Context) error {
	if m.storage == nil {
		host, port := parseRedisAddr(m.redisAddr)
		m.storage = redis.New(redis.Config{
			Host:     host,
			Port:     port,
			PoolSize: 20,
		})
	}
	if _, err := m.storage.GetWithContext(ctx, healthCheckKey); err != nil {
		return fmt.Errorf("storage unreachable: %w", err)
	}
	if m.redisAddr != "" {
		m.logger.Info("Connected to Redis", "addr", m.redisAddr, "prefix", m.prefix)
	}
	m.store = NewStore(m.storage, m.prefix)
	m.logger.Info("Plugin started")
	return nil
}

// Stop closes the storage connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.logger.Error("Error closing storage", "error", err)
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	m.logger.Info("Plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the Store for consumers. It is nil until Start.
func (m *PluginModule) Port() Store {
	return m.store
}

// Health checks the backend with a read of a non-existent key.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.storage == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "storage not initialized",
		}
	}

	if _, err := m.storage.GetWithContext(ctx, healthCheckKey); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("health check failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis_addr": m.redisAddr,
			"prefix":     m.prefix,
		},
	}
}

// parseRedisAddr parses "host:port", defaulting to 127.0.0.1:6379.
func parseRedisAddr(addr string) (string, int) {
	const defaultHost = "127.0.0.1"
	const defaultPort = 6379

	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		if addr != "" && !strings.Contains(addr, ":") {
			return addr, defaultPort
		}
		return defaultHost, defaultPort
	}
	if host == "" {
		host = defaultHost
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		port = defaultPort
	}
	return host, port
}
