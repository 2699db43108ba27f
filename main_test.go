package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/models"
	"storefront/pkg/payments"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type noopPaymentProvider struct{}

func (noopPaymentProvider) CreateCheckoutSession(payments.CheckoutRequest) (*payments.Session, error) {
	return &payments.Session{ID: "cs_test_noop", URL: "https://checkout.stripe.test/noop"}, nil
}

func (noopPaymentProvider) GetCheckoutSession(id string) (*payments.Session, error) {
	return &payments.Session{ID: id, PaymentStatus: "unpaid"}, nil
}

func TestNewAppServesHealthAndPublicRoutes(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	app := newApp(db, noopPaymentProvider{}, nil, "test_jwt_secret", "http://localhost:3000")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Protected surface rejects anonymous callers.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil), -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
