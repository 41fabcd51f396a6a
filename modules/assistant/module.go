package assistant

import (
	"context"
	"fmt"

	catalogmod "github.com/3marnadates-alt/3marna.art/modules/catalog"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"google.golang.org/genai"
)

// Config holds the Gemini settings.
type Config struct {
	APIKey string
	Model  string
}

// Module provides the assistant service as a mono module.
type Module struct {
	config        Config
	catalogModule *catalogmod.Module
	service       *Service
	logger        types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates an assistant module.
func NewModule(config Config, logger types.Logger) *Module {
	return &Module{config: config, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "assistant"
}

// SetCatalogModule sets the catalog used for the chat context.
func (m *Module) SetCatalogModule(cm *catalogmod.Module) {
	m.catalogModule = cm
}

// Start creates the Gemini client. Without an API key the module still
// starts and serves fallback answers.
func (m *Module) Start(ctx context.Context) error {
	if m.catalogModule == nil || m.catalogModule.Service() == nil {
		return fmt.Errorf("catalog module not available")
	}

	var generator Generator
	if m.config.APIKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.config.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return fmt.Errorf("failed to create Gemini client: %w", err)
		}
		generator = client.Models
	} else {
		m.logger.Warn("GEMINI_API_KEY not set, assistant runs in fallback mode")
	}

	m.service = NewService(generator, m.config.Model, m.catalogModule.Service(), m.logger)
	m.logger.Info("Module started", "model", m.service.model, "configured", m.service.Configured())
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Service returns the assistant service. It is nil until Start.
func (m *Module) Service() *Service {
	return m.service
}

// Health reports whether the model client is configured.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "not started"}
	}
	msg := "operational"
	if !m.service.Configured() {
		msg = "fallback mode"
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: msg,
		Details: map[string]any{"model": m.service.model},
	}
}
