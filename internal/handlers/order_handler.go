package handlers

import (
	"log"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and order history.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/checkout", h.HandleCheckout)
	orderRoutes.Post("/verify", h.HandleVerifyPayment)
	orderRoutes.Get("/myorders", h.HandleMyOrders)
}

// CheckoutRequest is the body for initiating a checkout session.
type CheckoutRequest struct {
	ShippingAddress models.ShippingAddress `json:"shippingAddress" validate:"required"`
}

// VerifyRequest is the body for verifying a payment session.
type VerifyRequest struct {
	SessionID string `json:"sessionId" validate:"required"`
}

// HandleCheckout converts the user's cart into a hosted payment session and
// an unpaid order, returning the redirect URL.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout request body: %v", err)
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondBadRequest(c, "shippingAddress requires address, city, postal code and country")
	}

	result, err := h.service.Checkout(userID(c), userEmail(c), req.ShippingAddress)
	if err != nil {
		log.Printf("Error initiating checkout for user %s: %v", userID(c), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"sessionId": result.SessionID,
		"url":       result.URL,
		"orderId":   result.OrderID,
	})
}

// HandleVerifyPayment polls the payment provider for the session's status
// and finalizes the order when it is paid. Safe to call repeatedly.
func (h *OrderHandler) HandleVerifyPayment(c *fiber.Ctx) error {
	var req VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing verify request body: %v", err)
		return respondBadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondBadRequest(c, "sessionId is required")
	}

	order, err := h.service.VerifyPayment(req.SessionID)
	if err != nil {
		log.Printf("Error verifying payment for session %s: %v", req.SessionID, err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"order":   order,
	})
}

// HandleMyOrders lists the user's orders, newest first.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListUserOrders(userID(c))
	if err != nil {
		log.Printf("Error listing orders for user %s: %v", userID(c), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"orders":  orders,
	})
}
