// Package catalog provides the catalog and settings store as a mono module.
package catalog

import (
	"context"
	"fmt"

	"github.com/3marnadates-alt/3marna.art/modules/kvstore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module provides catalog services as a mono module.
type Module struct {
	kv      *kvstore.PluginModule
	service *Service
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
)

// NewModule creates a new catalog module.
func NewModule(logger types.Logger) *Module {
	return &Module{logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetPlugin receives the kvstore plugin before Start.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "kvstore" {
		return
	}
	if kv, ok := plugin.(*kvstore.PluginModule); ok {
		m.kv = kv
		m.logger.Debug("kvstore plugin injected")
	}
}

// Start rehydrates the catalog from storage.
func (m *Module) Start(ctx context.Context) error {
	if m.kv == nil {
		return fmt.Errorf("kvstore plugin not set - ensure 'kvstore' plugin is registered")
	}
	store := m.kv.Port()
	if store == nil {
		return fmt.Errorf("kvstore plugin not started")
	}
	m.service = NewService(store, m.logger)
	m.service.Load(ctx)
	m.logger.Info("Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Service returns the catalog service. It is nil until Start.
func (m *Module) Service() *Service {
	return m.service
}

// Health reports the catalog size.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	products, settings := m.service.Snapshot()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"products":        len(products),
			"discount_active": settings.IsDiscountActive,
		},
	}
}
