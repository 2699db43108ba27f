package services_test

import (
	"fmt"
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPaymentProvider is a mock implementation of payments.Provider
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateCheckoutSession(req payments.CheckoutRequest) (*payments.Session, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Session), args.Error(1)
}

func (m *MockPaymentProvider) GetCheckoutSession(id string) (*payments.Session, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Session), args.Error(1)
}

var testAddress = models.ShippingAddress{
	Address:    "12 Elm",
	City:       "Pune",
	PostalCode: "411001",
	Country:    "India",
}

func newOrderFixture(t *testing.T) (*services.OrderService, *repositories.MockOrderRepository, *repositories.MockCartRepository, *MockPaymentProvider) {
	t.Helper()
	orderRepo := repositories.NewMockOrderRepository()
	cartRepo := repositories.NewMockCartRepository()
	provider := new(MockPaymentProvider)
	service := services.NewOrderService(orderRepo, cartRepo, provider, nil, "http://localhost:3000")
	return service, orderRepo, cartRepo, provider
}

func seedCart(t *testing.T, cartRepo repositories.CartRepository, userID string, items ...models.CartItem) *models.Cart {
	t.Helper()
	cart := &models.Cart{UserID: userID, Items: items}
	cart.RecalculateBill()
	assert.NoError(t, cartRepo.Create(cart))
	return cart
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	service, orderRepo, cartRepo, provider := newOrderFixture(t)

	// No cart document at all.
	_, err := service.Checkout("user-1", "shopper@example.com", testAddress)
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	// Cart exists but holds no items.
	seedCart(t, cartRepo, "user-2")
	_, err = service.Checkout("user-2", "shopper@example.com", testAddress)
	assert.ErrorIs(t, err, services.ErrEmptyCart)

	provider.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything)
	orders, err := orderRepo.ListByUserID("user-2")
	assert.NoError(t, err)
	assert.Empty(t, orders, "an empty-cart checkout must not create an order")
}

func TestOrderService_Checkout_CreatesUnpaidOrder(t *testing.T) {
	service, orderRepo, cartRepo, provider := newOrderFixture(t)
	seedCart(t, cartRepo, "user-1",
		models.CartItem{ProductID: "prod-1", Quantity: 2, Price: 500, Name: "Product A", Image: "https://img.example.com/a.jpg"},
		models.CartItem{ProductID: "prod-2", Quantity: 1, Price: 49.99, Name: "Product B", Image: "https://img.example.com/b.jpg"},
	)

	provider.On("CreateCheckoutSession", mock.MatchedBy(func(req payments.CheckoutRequest) bool {
		if len(req.LineItems) != 2 {
			return false
		}
		// Unit amounts are the snapshot price in the smallest currency unit.
		return req.LineItems[0].UnitAmount == 50000 && req.LineItems[0].Quantity == 2 &&
			req.LineItems[1].UnitAmount == 4999 && req.LineItems[1].Quantity == 1 &&
			req.CustomerEmail == "shopper@example.com" &&
			req.Metadata["userId"] == "user-1"
	})).Return(&payments.Session{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.test/cs_test_1",
	}, nil).Once()

	result, err := service.Checkout("user-1", "shopper@example.com", testAddress)
	assert.NoError(t, err)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.Equal(t, "https://checkout.stripe.test/cs_test_1", result.URL)
	assert.NotEmpty(t, result.OrderID)
	provider.AssertExpectations(t)

	order, err := orderRepo.GetBySessionID("cs_test_1")
	assert.NoError(t, err)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.InDelta(t, 1049.99, order.TotalPrice, 0.001)
	assert.Equal(t, testAddress, order.ShippingAddress)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "prod-1", order.Items[0].ProductID)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// The cart is untouched until payment is confirmed.
	cart, err := cartRepo.GetByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.InDelta(t, 1049.99, cart.Bill, 0.001)
}

func TestOrderService_Checkout_ReinitiationCreatesSecondOrder(t *testing.T) {
	service, orderRepo, cartRepo, provider := newOrderFixture(t)
	seedCart(t, cartRepo, "user-1",
		models.CartItem{ProductID: "prod-1", Quantity: 1, Price: 100, Name: "Product A"},
	)

	for i := 1; i <= 2; i++ {
		sessionID := fmt.Sprintf("cs_test_%d", i)
		provider.On("CreateCheckoutSession", mock.Anything).Return(&payments.Session{
			ID:  sessionID,
			URL: "https://checkout.stripe.test/" + sessionID,
		}, nil).Once()

		_, err := service.Checkout("user-1", "shopper@example.com", testAddress)
		assert.NoError(t, err)
	}

	// Abandoning a session and checking out again leaves two unpaid orders
	// bound to different sessions.
	orders, err := orderRepo.ListByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.NotEqual(t, orders[0].StripeSessionID, orders[1].StripeSessionID)
}

func TestOrderService_Checkout_ProviderFailure(t *testing.T) {
	service, orderRepo, cartRepo, provider := newOrderFixture(t)
	seedCart(t, cartRepo, "user-1",
		models.CartItem{ProductID: "prod-1", Quantity: 1, Price: 100, Name: "Product A"},
	)

	provider.On("CreateCheckoutSession", mock.Anything).Return(nil, fmt.Errorf("stripe: connection refused")).Once()

	_, err := service.Checkout("user-1", "shopper@example.com", testAddress)
	assert.ErrorIs(t, err, services.ErrPaymentProvider)

	orders, err := orderRepo.ListByUserID("user-1")
	assert.NoError(t, err)
	assert.Empty(t, orders, "a failed provider call must not leave an order behind")
}

func TestOrderService_VerifyPayment_MarksPaidOnce(t *testing.T) {
	service, _, cartRepo, provider := newOrderFixture(t)
	seedCart(t, cartRepo, "user-1",
		models.CartItem{ProductID: "prod-1", Quantity: 2, Price: 500, Name: "Product A"},
	)

	provider.On("CreateCheckoutSession", mock.Anything).Return(&payments.Session{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.test/cs_test_1",
	}, nil).Once()
	_, err := service.Checkout("user-1", "shopper@example.com", testAddress)
	assert.NoError(t, err)

	paidSession := &payments.Session{
		ID:              "cs_test_1",
		Paid:            true,
		PaymentStatus:   "paid",
		PaymentIntentID: "pi_test_1",
		CustomerEmail:   "shopper@example.com",
	}
	provider.On("GetCheckoutSession", "cs_test_1").Return(paidSession, nil).Twice()

	order, err := service.VerifyPayment("cs_test_1")
	assert.NoError(t, err)
	assert.True(t, order.IsPaid)
	assert.NotNil(t, order.PaidAt)
	assert.Equal(t, "pi_test_1", order.PaymentResult.PaymentID)
	assert.Equal(t, "paid", order.PaymentResult.Status)
	assert.Equal(t, "shopper@example.com", order.PaymentResult.Email)

	// Payment confirmation wipes the owner's cart.
	cart, err := cartRepo.GetByUserID("user-1")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Bill)

	firstPaidAt := *order.PaidAt

	// A repeat verification (e.g. page refresh) is a no-op.
	again, err := service.VerifyPayment("cs_test_1")
	assert.NoError(t, err)
	assert.True(t, again.IsPaid)
	assert.Equal(t, firstPaidAt.Unix(), again.PaidAt.Unix())
	provider.AssertExpectations(t)
}

func TestOrderService_VerifyPayment_NotPaid(t *testing.T) {
	service, orderRepo, cartRepo, provider := newOrderFixture(t)
	seedCart(t, cartRepo, "user-1",
		models.CartItem{ProductID: "prod-1", Quantity: 1, Price: 100, Name: "Product A"},
	)

	provider.On("CreateCheckoutSession", mock.Anything).Return(&payments.Session{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.test/cs_test_1",
	}, nil).Once()
	_, err := service.Checkout("user-1", "shopper@example.com", testAddress)
	assert.NoError(t, err)

	provider.On("GetCheckoutSession", "cs_test_1").Return(&payments.Session{
		ID:            "cs_test_1",
		Paid:          false,
		PaymentStatus: "unpaid",
	}, nil).Once()

	_, err = service.VerifyPayment("cs_test_1")
	assert.ErrorIs(t, err, services.ErrPaymentNotCompleted)

	// Neither the order nor the cart was mutated.
	order, err := orderRepo.GetBySessionID("cs_test_1")
	assert.NoError(t, err)
	assert.False(t, order.IsPaid)

	cart, err := cartRepo.GetByUserID("user-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
}

func TestOrderService_VerifyPayment_OrderNotFound(t *testing.T) {
	service, _, _, provider := newOrderFixture(t)

	provider.On("GetCheckoutSession", "cs_unknown").Return(&payments.Session{
		ID:            "cs_unknown",
		Paid:          true,
		PaymentStatus: "paid",
	}, nil).Once()

	_, err := service.VerifyPayment("cs_unknown")
	assert.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestOrderService_VerifyPayment_ProviderFailure(t *testing.T) {
	service, _, _, provider := newOrderFixture(t)

	provider.On("GetCheckoutSession", "cs_test_1").Return(nil, fmt.Errorf("stripe: timeout")).Once()

	_, err := service.VerifyPayment("cs_test_1")
	assert.ErrorIs(t, err, services.ErrPaymentProvider)
}

func TestOrderService_ListUserOrders_NewestFirst(t *testing.T) {
	service, _, cartRepo, provider := newOrderFixture(t)
	seedCart(t, cartRepo, "user-1",
		models.CartItem{ProductID: "prod-1", Quantity: 1, Price: 100, Name: "Product A"},
	)

	for i := 1; i <= 3; i++ {
		sessionID := fmt.Sprintf("cs_test_%d", i)
		provider.On("CreateCheckoutSession", mock.Anything).Return(&payments.Session{
			ID:  sessionID,
			URL: "https://checkout.stripe.test/" + sessionID,
		}, nil).Once()
		_, err := service.Checkout("user-1", "shopper@example.com", testAddress)
		assert.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	orders, err := service.ListUserOrders("user-1")
	assert.NoError(t, err)
	assert.Len(t, orders, 3)
	assert.Equal(t, "cs_test_3", orders[0].StripeSessionID)
	assert.Equal(t, "cs_test_1", orders[2].StripeSessionID)
	for i := 1; i < len(orders); i++ {
		assert.False(t, orders[i].CreatedAt.After(orders[i-1].CreatedAt))
	}

	// Another user sees nothing.
	others, err := service.ListUserOrders("user-2")
	assert.NoError(t, err)
	assert.Empty(t, others)
}
