// Package orders keeps a ledger of placed orders in SQLite.
package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/3marnadates-alt/3marna.art/domain/order"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module records OrderPlaced events via GORM + SQLite.
type Module struct {
	db     *gorm.DB
	repo   *Repository
	dbPath string
	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates an order ledger module storing into dbPath.
func NewModule(dbPath string, logger types.Logger) *Module {
	if dbPath == "" {
		dbPath = "orders.db"
	}
	return &Module{dbPath: dbPath, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "orders"
}

// RegisterEventConsumers subscribes to OrderPlaced events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	def, ok := registry.GetEventByName("OrderPlaced", "v1", "checkout")
	if !ok {
		return fmt.Errorf("event OrderPlaced.v1 not found")
	}
	if err := registry.RegisterEventConsumer(def, m.handleOrderPlaced, m); err != nil {
		return fmt.Errorf("failed to register OrderPlaced consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"OrderPlaced.v1"})
	return nil
}

func (m *Module) handleOrderPlaced(ctx context.Context, msg *mono.Msg) error {
	var event order.OrderPlacedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		m.logger.Error("Failed to unmarshal OrderPlaced event", "error", err)
		return nil
	}
	if m.repo == nil {
		return errors.New("orders module not started")
	}

	if err := m.repo.Create(ctx, NewOrderRecord(event)); err != nil {
		if errors.Is(err, ErrDuplicate) {
			m.logger.Debug("Order already recorded", "order", event.Number, "id", event.ID)
			return nil
		}
		m.logger.Error("Failed to record order", "order", event.Number, "error", err)
		return err
	}

	m.logger.Info("Order recorded", "order", event.Number, "total", event.Quote.FinalTotal)
	return nil
}

// Start opens the database and runs migrations.
func (m *Module) Start(_ context.Context) error {
	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.repo = NewRepository(db)
	m.logger.Info("Module started", "database", m.dbPath)
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	m.logger.Info("Module stopped")
	return nil
}

// Repository returns the ledger repository. It is nil until Start.
func (m *Module) Repository() *Repository {
	return m.repo
}

// Health pings the database.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{Healthy: false, Message: "database not initialized"}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("failed to get sql.DB: %v", err)}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("database ping failed: %v", err)}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
		},
	}
}
