package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/payments"
	"storefront/pkg/rabbitmq"

	"github.com/google/uuid"
)

// OrderService drives the checkout flow: it turns a cart into a hosted
// payment session plus an unpaid order, finalizes the order once the
// provider reports the session paid, and serves order history.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	provider    payments.Provider
	mqClient    *rabbitmq.Client
	frontendURL string
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, provider payments.Provider, mqClient *rabbitmq.Client, frontendURL string) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		provider:    provider,
		mqClient:    mqClient,
		frontendURL: frontendURL,
	}
}

// CheckoutResult is what the client needs to redirect to the hosted
// payment page and to track the created order.
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	OrderID   string `json:"orderId"`
}

// Checkout opens a hosted payment session for the user's cart and records
// an unpaid order bound to that session.
//
// The order is written only after the provider call succeeds, so a failed
// provider call leaves no order behind. The cart is intentionally left
// untouched; it is cleared only after a confirmed payment, which means
// re-initiating checkout before paying creates another unpaid order bound
// to a fresh session.
func (s *OrderService) Checkout(userID, email string, addr models.ShippingAddress) (*CheckoutResult, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lineItems := make([]payments.CheckoutLineItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		lineItems = append(lineItems, payments.CheckoutLineItem{
			Name:       item.Name,
			Image:      item.Image,
			UnitAmount: int64(math.Round(item.Price * 100)), // smallest currency unit
			Quantity:   int64(item.Quantity),
		})
	}

	addrJSON, err := json.Marshal(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal shipping address: %w", err)
	}

	sess, err := s.provider.CreateCheckoutSession(payments.CheckoutRequest{
		LineItems:     lineItems,
		CustomerEmail: email,
		SuccessURL:    s.frontendURL + "/checkout-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.frontendURL + "/cart",
		Metadata: map[string]string{
			"userId":          userID,
			"shippingAddress": string(addrJSON),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Image:     item.Image,
		})
	}

	order := &models.Order{
		ID:              uuid.New().String(),
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: addr,
		TotalPrice:      cart.Bill,
		StripeSessionID: sess.ID,
	}

	// If this write fails the user holds a live payment link with no
	// matching order; there is no compensation for that case.
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	s.publishEvent("order.created", order)

	return &CheckoutResult{
		SessionID: sess.ID,
		URL:       sess.URL,
		OrderID:   order.ID,
	}, nil
}

// VerifyPayment polls the provider for the session's status. If the session
// is paid, the bound order transitions to paid exactly once (repeat calls
// are no-ops returning the same order) and the owner's cart is wiped. If
// the session is not yet paid, ErrPaymentNotCompleted is returned and
// nothing is mutated.
func (s *OrderService) VerifyPayment(sessionID string) (*models.Order, error) {
	sess, err := s.provider.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}
	if !sess.Paid {
		return nil, ErrPaymentNotCompleted
	}

	order, err := s.orderRepo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.IsPaid {
		// Verification may be invoked more than once for the same session,
		// e.g. on page refresh.
		return order, nil
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = models.PaymentResult{
		PaymentID:  sess.PaymentIntentID,
		Status:     sess.PaymentStatus,
		UpdateTime: now.UTC().Format(time.RFC3339),
		Email:      sess.CustomerEmail,
	}
	if err := s.orderRepo.Save(order); err != nil {
		return nil, fmt.Errorf("failed to mark order %s paid: %w", order.ID, err)
	}

	// Wipe the owner's cart regardless of whether it still matches the
	// order's snapshot.
	cart, err := s.cartRepo.GetByUserID(order.UserID)
	if err == nil {
		cart.Items = []models.CartItem{}
		cart.Bill = 0
		if err := s.cartRepo.Save(cart); err != nil {
			log.Printf("Warning: failed to clear cart for user %s after payment: %v", order.UserID, err)
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		log.Printf("Warning: failed to load cart for user %s after payment: %v", order.UserID, err)
	}

	s.publishEvent("order.paid", order)

	return order, nil
}

// ListUserOrders retrieves all of a user's orders, newest first.
func (s *OrderService) ListUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUserID(userID)
}

// publishEvent publishes an order lifecycle event. Publishing is
// fire-and-forget: a failure is logged and never fails the request.
func (s *OrderService) publishEvent(eventType string, order *models.Order) {
	if s.mqClient == nil {
		log.Println("RabbitMQ client is not initialized. Skipping message publication.")
		return
	}

	event := rabbitmq.Event{
		Type:       eventType,
		OrderID:    order.ID,
		UserID:     order.UserID,
		Total:      order.TotalPrice,
		OccurredAt: time.Now(),
	}
	if err := s.mqClient.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", eventType, order.ID, err)
	} else {
		log.Printf("Successfully published %s event for order %s", eventType, order.ID)
	}
}
