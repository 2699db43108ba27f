package repositories

import (
	"storefront/internal/models"
)

// CartRepository defines the interface for cart data access. Save persists
// the whole cart document (items included) in one write; there is no
// per-item partial update.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	Save(cart *models.Cart) error
}
