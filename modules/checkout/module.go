package checkout

import (
	"context"
	"fmt"

	"github.com/3marnadates-alt/3marna.art/domain/order"
	cartmod "github.com/3marnadates-alt/3marna.art/modules/cart"
	catalogmod "github.com/3marnadates-alt/3marna.art/modules/catalog"
	"github.com/3marnadates-alt/3marna.art/modules/formrelay"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module wires checkout to the catalog, the carts and the event bus.
type Module struct {
	catalogModule *catalogmod.Module
	cartModule    *cartmod.Module
	relay         formrelay.Submitter
	eventBus      mono.EventBus
	service       *Service
	logger        types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module             = (*Module)(nil)
	_ mono.EventEmitterModule = (*Module)(nil)
)

// NewModule creates a checkout module submitting orders through relay.
func NewModule(relay formrelay.Submitter, logger types.Logger) *Module {
	return &Module{
		relay:  relay,
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "checkout"
}

// SetCatalogModule sets the catalog dependency.
func (m *Module) SetCatalogModule(cm *catalogmod.Module) {
	m.catalogModule = cm
}

// SetCartModule sets the cart dependency.
func (m *Module) SetCartModule(cm *cartmod.Module) {
	m.cartModule = cm
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		order.OrderPlacedV1.ToBase(),
	}
}

// PublishOrderPlaced publishes an OrderPlaced event.
func (m *Module) PublishOrderPlaced(_ context.Context, event order.OrderPlacedEvent) error {
	if m.eventBus == nil {
		return fmt.Errorf("event bus not set")
	}
	return order.OrderPlacedV1.Publish(m.eventBus, event, nil)
}

// Start builds the checkout service.
func (m *Module) Start(_ context.Context) error {
	if m.catalogModule == nil || m.catalogModule.Service() == nil {
		return fmt.Errorf("catalog module not available")
	}
	if m.cartModule == nil || m.cartModule.Service() == nil {
		return fmt.Errorf("cart module not available")
	}

	numbers, err := order.NewNumberGenerator()
	if err != nil {
		return err
	}

	m.service = NewService(
		m.catalogModule.Service(),
		m.cartModule.Service(),
		m.relay,
		numbers,
		m,
		m.logger,
	)
	m.logger.Info("Module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Service returns the checkout service. It is nil until Start.
func (m *Module) Service() *Service {
	return m.service
}
