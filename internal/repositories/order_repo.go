package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are never deleted; Save is only used for the unpaid->paid
// transition.
type OrderRepository interface {
	Create(order *models.Order) error
	GetBySessionID(sessionID string) (*models.Order, error)
	ListByUserID(userID string) ([]models.Order, error)
	Save(order *models.Order) error
}
