package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/3marnadates-alt/3marna.art/domain/catalog"
	"github.com/3marnadates-alt/3marna.art/domain/order"
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
	"github.com/gofiber/fiber/v2"
)

// HealthChecker is implemented by modules reporting their health.
type HealthChecker = mono.HealthCheckableModule

// Deps are the services behind the HTTP handlers. Orders may be nil.
type Deps struct {
	Catalog   *catalogmod.Service
	Carts     *cartmod.Service
	Checkout  *checkoutmod.Service
	Contact   *contact.Service
	Assistant *assistant.Service
	Consent   *consent.Service
	Orders    *orders.Repository
	Admin     admin.AdminPort
	Health    []HealthChecker
}

// FrameLimiter limits chat socket frames per client key.
// *ratelimit.SlidingWindowLimiter satisfies it.
type FrameLimiter interface {
	Allow(ctx context.Context, key string) (*ratelimit.Result, error)
}

// Handlers provides the HTTP handlers for the API.
type Handlers struct {
	deps        Deps
	chatLimiter FrameLimiter
	logger      types.Logger
}

// NewHandlers creates the handlers.
func NewHandlers(deps Deps, logger types.Logger) *Handlers {
	return &Handlers{deps: deps, logger: logger}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "Bad Request",
		Message: message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "Not Found",
		Message: message,
	})
}

func productID(c *fiber.Ctx) (int, bool) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	status := "healthy"
	modules := make(map[string]any, len(h.deps.Health))
	for _, m := range h.deps.Health {
		hs := m.Health(c.UserContext())
		if !hs.Healthy {
			status = "degraded"
		}
		modules[m.Name()] = fiber.Map{
			"healthy": hs.Healthy,
			"message": hs.Message,
		}
	}

	code := fiber.StatusOK
	if status != "healthy" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(HealthResponse{Status: status, Modules: modules})
}

// ListProducts handles GET /api/v1/products.
func (h *Handlers) ListProducts(c *fiber.Ctx) error {
	products := h.deps.Catalog.ListProducts()
	return c.JSON(fiber.Map{
		"products": products,
		"total":    len(products),
	})
}

// GetProduct handles GET /api/v1/products/:id.
func (h *Handlers) GetProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	p, found := h.deps.Catalog.Product(id)
	if !found {
		return notFound(c, "Product not found")
	}
	return c.JSON(fiber.Map{"product": p})
}

// GetSettings handles GET /api/v1/settings.
func (h *Handlers) GetSettings(c *fiber.Ctx) error {
	return c.JSON(h.deps.Catalog.Settings())
}

// ListLocalities handles GET /api/v1/localities.
func (h *Handlers) ListLocalities(c *fiber.Ctx) error {
	rates := h.deps.Catalog.Settings().DeliveryRates
	localities := make([]LocalityResponse, 0, len(catalog.Localities))
	for _, l := range catalog.Localities {
		localities = append(localities, LocalityResponse{
			Name: l.Name,
			Key:  string(l.Key),
			Fee:  rates.Rate(l.Key),
		})
	}
	return c.JSON(fiber.Map{
		"localities": localities,
		"default":    catalog.DefaultCity,
	})
}

// GetCart handles GET /api/v1/cart.
func (h *Handlers) GetCart(c *fiber.Ctx) error {
	return c.JSON(h.deps.Carts.Get(sessionID(c)))
}

// AddToCart handles POST /api/v1/cart/items.
func (h *Handlers) AddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := h.deps.Carts.Add(sessionID(c), req.ProductID)
	if err != nil {
		if errors.Is(err, cartmod.ErrProductNotFound) {
			return notFound(c, "Product not found")
		}
		return err
	}
	return c.JSON(view)
}

// UpdateCartItem handles PUT /api/v1/cart/items/:id.
// A quantity below one removes the line.
func (h *Handlers) UpdateCartItem(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	return c.JSON(h.deps.Carts.UpdateQuantity(sessionID(c), id, req.Quantity))
}

// RemoveCartItem handles DELETE /api/v1/cart/items/:id.
func (h *Handlers) RemoveCartItem(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	return c.JSON(h.deps.Carts.Remove(sessionID(c), id))
}

// ClearCart handles DELETE /api/v1/cart.
func (h *Handlers) ClearCart(c *fiber.Ctx) error {
	id := sessionID(c)
	h.deps.Carts.Clear(id)
	return c.JSON(h.deps.Carts.Get(id))
}

// Quote handles POST /api/v1/checkout/quote.
func (h *Handlers) Quote(c *fiber.Ctx) error {
	var req QuoteRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	quote, view := h.deps.Checkout.Quote(sessionID(c), req.City)
	return c.JSON(QuoteResponse{
		Quote:     quote,
		Formatted: formatQuote(quote),
		Items:     view.TotalItems,
	})
}

// PlaceOrder handles POST /api/v1/checkout.
func (h *Handlers) PlaceOrder(c *fiber.Ctx) error {
	var customer order.Customer
	if err := c.BodyParser(&customer); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.deps.Checkout.PlaceOrder(c.UserContext(), sessionID(c), customer)
	if err != nil {
		switch {
		case errors.Is(err, order.ErrEmptyCart):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
				Error:   "Unprocessable Entity",
				Message: err.Error(),
			})
		case errors.Is(err, order.ErrNameRequired), errors.Is(err, order.ErrPhoneRequired),
			errors.Is(err, order.ErrCityRequired), errors.Is(err, order.ErrAddressRequired):
			return badRequest(c, err.Error())
		}
		return err
	}

	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Contact handles POST /api/v1/contact.
func (h *Handlers) Contact(c *fiber.Ctx) error {
	var req contact.Request
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	result, err := h.deps.Contact.Submit(c.UserContext(), req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	if !result.Success {
		return c.Status(fiber.StatusBadGateway).JSON(result)
	}
	return c.JSON(result)
}

// GetConsent handles GET /api/v1/consent.
func (h *Handlers) GetConsent(c *fiber.Ctx) error {
	granted, err := h.deps.Consent.Granted(c.UserContext(), sessionID(c))
	if err != nil {
		h.logger.Warn("Failed to read consent", "error", err)
	}
	return c.JSON(ConsentResponse{CookieConsent: granted})
}

// GrantConsent handles POST /api/v1/consent.
func (h *Handlers) GrantConsent(c *fiber.Ctx) error {
	if err := h.deps.Consent.Grant(c.UserContext(), sessionID(c)); err != nil {
		h.logger.Error("Failed to store consent", "error", err)
		return fiber.NewError(fiber.StatusServiceUnavailable, "Failed to store consent")
	}
	return c.JSON(ConsentResponse{CookieConsent: true})
}
