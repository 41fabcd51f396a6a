package contact

import (
	"context"
	"fmt"

	"github.com/3marnadates-alt/3marna.art/modules/formrelay"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module provides the contact service as a mono module.
type Module struct {
	relay   formrelay.Submitter
	service *Service
	logger  types.Logger
}

var _ mono.Module = (*Module)(nil)

// NewModule creates a contact module relaying through relay.
func NewModule(relay formrelay.Submitter, logger types.Logger) *Module {
	return &Module{relay: relay, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "contact"
}

// Start creates the contact service.
func (m *Module) Start(_ context.Context) error {
	if m.relay == nil {
		return fmt.Errorf("form relay not set")
	}
	m.service = NewService(m.relay, m.logger)
	m.logger.Info("Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	return nil
}

// Service returns the contact service. It is nil until Start.
func (m *Module) Service() *Service {
	return m.service
}
