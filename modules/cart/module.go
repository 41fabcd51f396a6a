package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	catalogmod "github.com/3marnadates-alt/3marna.art/modules/catalog"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module owns the session carts and sweeps idle ones in the background.
type Module struct {
	catalogModule *catalogmod.Module
	service       *Service
	idleTTL       time.Duration
	sweepInterval time.Duration
	logger        types.Logger

	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a cart module. Carts idle for idleTTL are dropped.
func NewModule(idleTTL time.Duration, logger types.Logger) *Module {
	interval := idleTTL / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Module{
		idleTTL:       idleTTL,
		sweepInterval: interval,
		logger:        logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cart"
}

// SetCatalogModule sets the catalog used to resolve added products.
func (m *Module) SetCatalogModule(cm *catalogmod.Module) {
	m.catalogModule = cm
}

// Start creates the service and launches the sweeper.
func (m *Module) Start(_ context.Context) error {
	if m.catalogModule == nil {
		return fmt.Errorf("catalog module not set")
	}
	products := m.catalogModule.Service()
	if products == nil {
		return fmt.Errorf("catalog service not available")
	}
	m.service = NewService(products, m.idleTTL)
	m.stopChan = make(chan struct{})
	m.doneChan = make(chan struct{})

	go m.run()

	m.logger.Info("Module started", "idleTTL", m.idleTTL.String())
	return nil
}

func (m *Module) run() {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()
	defer close(m.doneChan)

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			if n := m.service.Sweep(); n > 0 {
				m.logger.Debug("Swept idle carts", "removed", n)
			}
		}
	}
}

// Stop halts the sweeper.
func (m *Module) Stop(ctx context.Context) error {
	if m.stopChan == nil {
		return nil
	}
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})

	select {
	case <-m.doneChan:
	case <-ctx.Done():
		return ctx.Err()
	}
	m.logger.Info("Module stopped")
	return nil
}

// Service returns the cart service. It is nil until Start.
func (m *Module) Service() *Service {
	return m.service
}

// Health reports the number of live carts.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"sessions": m.service.Sessions()},
	}
}
