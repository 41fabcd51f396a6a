package consent

import (
	"context"
	"fmt"
	"time"

	"github.com/3marnadates-alt/3marna.art/modules/kvstore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module provides the consent service as a mono module.
type Module struct {
	kv      *kvstore.PluginModule
	ttl     time.Duration
	service *Service
	logger  types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module          = (*Module)(nil)
	_ mono.UsePluginModule = (*Module)(nil)
)

// NewModule creates a consent module.
func NewModule(ttl time.Duration, logger types.Logger) *Module {
	return &Module{ttl: ttl, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "consent"
}

// SetPlugin receives the kvstore plugin before Start.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "kvstore" {
		return
	}
	if kv, ok := plugin.(*kvstore.PluginModule); ok {
		m.kv = kv
	}
}

// Start creates the service over the kvstore port.
func (m *Module) Start(_ context.Context) error {
	if m.kv == nil || m.kv.Port() == nil {
		return fmt.Errorf("kvstore plugin not available")
	}
	m.service = NewService(m.kv.Port(), m.ttl)
	m.logger.Info("Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	return nil
}

// Service returns the consent service. It is nil until Start.
func (m *Module) Service() *Service {
	return m.service
}
