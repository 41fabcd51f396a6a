package api

import (
	"errors"

	"github.com/3marnadates-alt/3marna.art/domain/catalog"
	"github.com/3marnadates-alt/3marna.art/domain/order"
	"github.com/3marnadates-alt/3marna.art/modules/admin"
	"github.com/3marnadates-alt/3marna.art/modules/orders"
	"github.com/gofiber/fiber/v2"
)

// AdminLogin handles POST /api/v1/admin/login.
func (h *Handlers) AdminLogin(c *fiber.Ctx) error {
	var req AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	session, err := h.deps.Admin.Login(c.UserContext(), req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrInvalidPassword) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "Unauthorized",
				Message: admin.ErrInvalidPassword.Error(),
			})
		}
		h.logger.Error("Admin login failed", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(AdminLoginResponse{
		AccessToken: session.AccessToken,
		ExpiresIn:   session.ExpiresIn,
		TokenType:   session.TokenType,
	})
}

// AddProduct handles POST /api/v1/admin/products.
func (h *Handlers) AddProduct(c *fiber.Ctx) error {
	var in catalog.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := in.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	p := h.deps.Catalog.AddProduct(c.UserContext(), in)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"product": p})
}

// UpdateProduct handles PUT /api/v1/admin/products/:id.
func (h *Handlers) UpdateProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	var in catalog.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := in.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	p := in.WithID(id)
	if !h.deps.Catalog.UpdateProduct(c.UserContext(), p) {
		return notFound(c, "Product not found")
	}
	return c.JSON(fiber.Map{"product": p})
}

// DeleteProduct handles DELETE /api/v1/admin/products/:id.
func (h *Handlers) DeleteProduct(c *fiber.Ctx) error {
	id, ok := productID(c)
	if !ok {
		return badRequest(c, "Invalid product ID")
	}
	if !h.deps.Catalog.DeleteProduct(c.UserContext(), id) {
		return notFound(c, "Product not found")
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// UpdateSettings handles PUT /api/v1/admin/settings. The body replaces the
// settings wholesale and must carry every field.
func (h *Handlers) UpdateSettings(c *fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	settings, err := req.Settings()
	if err != nil {
		return badRequest(c, err.Error())
	}
	if err := settings.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	h.deps.Catalog.UpdateSettings(c.UserContext(), settings)
	return c.JSON(settings)
}

// ListOrders handles GET /api/v1/admin/orders.
func (h *Handlers) ListOrders(c *fiber.Ctx) error {
	if h.deps.Orders == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Order ledger not available")
	}

	page, err := h.deps.Orders.List(c.UserContext(), orders.ListOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", orders.DefaultPageSize),
	})
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to list orders")
	}
	return c.JSON(page)
}

// GetOrder handles GET /api/v1/admin/orders/:number.
func (h *Handlers) GetOrder(c *fiber.Ctx) error {
	if h.deps.Orders == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Order ledger not available")
	}

	number, err := order.ValidateNumber(c.Params("number"))
	if err != nil {
		return badRequest(c, "Invalid order number")
	}

	rec, err := h.deps.Orders.FindByNumber(c.UserContext(), number)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			return notFound(c, "Order not found")
		}
		h.logger.Error("Failed to get order", "order", number, "error", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get order")
	}
	return c.JSON(rec)
}
