// Package api serves the storefront HTTP and WebSocket API.
package api

import (
	"context"
	"fmt"

	"github.com/3marnadates-alt/3marna.art/modules/admin"
	"github.com/3marnadates-alt/3marna.art/modules/assistant"
	cartmod "github.com/3marnadates-alt/3marna.art/modules/cart"
	catalogmod "github.com/3marnadates-alt/3marna.art/modules/catalog"
	checkoutmod "github.com/3marnadates-alt/3marna.art/modules/checkout"
	"github.com/3marnadates-alt/3marna.art/modules/consent"
	"github.com/3marnadates-alt/3marna.art/modules/contact"
	"github.com/3marnadates-alt/3marna.art/modules/orders"
	"github.com/3marnadates-alt/3marna.art/modules/ratelimit"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
)

// Config holds the HTTP server settings.
type Config struct {
	Port int
	// RateLimit applies per client IP to login, checkout, contact and the
	// assistant endpoints, each with its own window.
	RateLimit ratelimit.Config
}

// Module provides the HTTP API.
type Module struct {
	config Config
	app    *fiber.App

	catalogModule   *catalogmod.Module
	cartModule      *cartmod.Module
	checkoutModule  *checkoutmod.Module
	contactModule   *contact.Module
	assistantModule *assistant.Module
	consentModule   *consent.Module
	ordersModule    *orders.Module
	rateLimitModule *ratelimit.Module
	adminPort       admin.AdminPort

	logger types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates the API module.
func NewModule(config Config, logger types.Logger) *Module {
	if config.Port == 0 {
		config.Port = 3000
	}
	if !config.RateLimit.Valid() {
		config.RateLimit = ratelimit.DefaultConfig()
	}
	return &Module{config: config, logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"admin"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "admin":
		m.adminPort = admin.NewAdapter(container)
	}
}

// SetCatalogModule sets the catalog module dependency.
func (m *Module) SetCatalogModule(cm *catalogmod.Module) { m.catalogModule = cm }

// SetCartModule sets the cart module dependency.
func (m *Module) SetCartModule(cm *cartmod.Module) { m.cartModule = cm }

// SetCheckoutModule sets the checkout module dependency.
func (m *Module) SetCheckoutModule(cm *checkoutmod.Module) { m.checkoutModule = cm }

// SetContactModule sets the contact module dependency.
func (m *Module) SetContactModule(cm *contact.Module) { m.contactModule = cm }

// SetAssistantModule sets the assistant module dependency.
func (m *Module) SetAssistantModule(am *assistant.Module) { m.assistantModule = am }

// SetConsentModule sets the consent module dependency.
func (m *Module) SetConsentModule(cm *consent.Module) { m.consentModule = cm }

// SetOrdersModule sets the order ledger dependency.
func (m *Module) SetOrdersModule(om *orders.Module) { m.ordersModule = om }

// SetRateLimitModule sets the rate limiter dependency.
func (m *Module) SetRateLimitModule(rm *ratelimit.Module) { m.rateLimitModule = rm }

func (m *Module) deps() (Deps, error) {
	switch {
	case m.adminPort == nil:
		return Deps{}, fmt.Errorf("admin dependency not set")
	case m.catalogModule == nil || m.catalogModule.Service() == nil:
		return Deps{}, fmt.Errorf("catalog service not available")
	case m.cartModule == nil || m.cartModule.Service() == nil:
		return Deps{}, fmt.Errorf("cart service not available")
	case m.checkoutModule == nil || m.checkoutModule.Service() == nil:
		return Deps{}, fmt.Errorf("checkout service not available")
	case m.contactModule == nil || m.contactModule.Service() == nil:
		return Deps{}, fmt.Errorf("contact service not available")
	case m.assistantModule == nil || m.assistantModule.Service() == nil:
		return Deps{}, fmt.Errorf("assistant service not available")
	case m.consentModule == nil || m.consentModule.Service() == nil:
		return Deps{}, fmt.Errorf("consent service not available")
	}

	deps := Deps{
		Catalog:   m.catalogModule.Service(),
		Carts:     m.cartModule.Service(),
		Checkout:  m.checkoutModule.Service(),
		Contact:   m.contactModule.Service(),
		Assistant: m.assistantModule.Service(),
		Consent:   m.consentModule.Service(),
		Admin:     m.adminPort,
		Health: []HealthChecker{
			m.catalogModule, m.cartModule, m.assistantModule,
		},
	}
	if m.ordersModule != nil {
		deps.Orders = m.ordersModule.Repository()
		deps.Health = append(deps.Health, m.ordersModule)
	}
	if m.rateLimitModule != nil {
		deps.Health = append(deps.Health, m.rateLimitModule)
	}
	return deps, nil
}

// Start builds the Fiber app and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	deps, err := m.deps()
	if err != nil {
		return err
	}

	var limiter *ratelimit.Middleware
	if m.rateLimitModule != nil {
		limiter = m.rateLimitModule.Middleware()
	}

	m.app = NewApp(NewHandlers(deps, m.logger), limiter, m.config.RateLimit)

	go func() {
		addr := fmt.Sprintf(":%d", m.config.Port)
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	m.logger.Info("HTTP server started", "port", m.config.Port)
	return nil
}

// Stop shuts down the HTTP server.
func (m *Module) Stop(_ context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server...")
	if err := m.app.Shutdown(); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.config.Port,
		},
	}
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}

// NewApp creates the Fiber app with middleware and routes. A nil limiter
// disables rate limiting.
func NewApp(h *Handlers, limiter *ratelimit.Middleware, limit ratelimit.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "3marna Storefront",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		ExposeHeaders: SessionHeader,
	}))

	if limiter != nil {
		h.chatLimiter = limiter.Limiter("assistant", limit)
	}

	byScope := func(scope string) fiber.Handler {
		if limiter == nil {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return limiter.ByIP(scope, limit)
	}

	setupRoutes(app, h, byScope)
	return app
}

func setupRoutes(app *fiber.App, h *Handlers, limit func(scope string) fiber.Handler) {
	app.Get("/health", h.HealthCheck)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals(clientIPKey, c.IP())
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/chat", websocket.New(h.ChatSocket))

	v1 := app.Group("/api/v1")

	v1.Get("/products", h.ListProducts)
	v1.Get("/products/:id", h.GetProduct)
	v1.Get("/settings", h.GetSettings)
	v1.Get("/localities", h.ListLocalities)

	session := SessionMiddleware()

	cart := v1.Group("/cart", session)
	cart.Get("/", h.GetCart)
	cart.Delete("/", h.ClearCart)
	cart.Post("/items", h.AddToCart)
	cart.Put("/items/:id", h.UpdateCartItem)
	cart.Delete("/items/:id", h.RemoveCartItem)

	checkout := v1.Group("/checkout", session)
	checkout.Post("/quote", h.Quote)
	checkout.Post("/", limit("checkout"), h.PlaceOrder)

	v1.Post("/contact", limit("contact"), h.Contact)
	v1.Get("/consent", session, h.GetConsent)
	v1.Post("/consent", session, h.GrantConsent)

	assistantRoutes := v1.Group("/assistant", limit("assistant"))
	assistantRoutes.Post("/recipe", h.GenerateRecipe)
	assistantRoutes.Post("/chat", h.Chat)

	adminRoutes := v1.Group("/admin")
	adminRoutes.Post("/login", limit("admin-login"), h.AdminLogin)

	protected := adminRoutes.Group("", AdminAuthMiddleware(h.deps.Admin))
	protected.Post("/products", h.AddProduct)
	protected.Put("/products/:id", h.UpdateProduct)
	protected.Delete("/products/:id", h.DeleteProduct)
	protected.Put("/settings", h.UpdateSettings)
	protected.Get("/orders", h.ListOrders)
	protected.Get("/orders/:number", h.GetOrder)
}

// errorHandler renders Fiber errors as JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   utils.StatusMessage(code),
		Message: message,
	})
}
