package models

import "time"

// OrderItem is a snapshot of a cart line frozen at checkout-initiation time.
type OrderItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36)"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"` // Price at the time of checkout
	Image     string  `json:"image"`
}

// ShippingAddress is the destination captured at checkout.
type ShippingAddress struct {
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// PaymentResult holds the payment provider's details for a settled session.
// Populated exactly once, when verification first observes the session paid.
type PaymentResult struct {
	PaymentID  string `json:"payment_id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Email      string `json:"email"`
}

// Order is a record of one checkout attempt, bound to exactly one external
// payment session via StripeSessionID. It is created unpaid at session
// initiation and transitions to paid at most once; it is never deleted and
// never transitions back. An abandoned session leaves a permanently unpaid
// order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	TotalPrice      float64         `json:"total_price"`
	StripeSessionID string          `json:"stripe_session_id" gorm:"uniqueIndex;type:varchar(255)"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	PaymentResult   PaymentResult   `json:"payment_result" gorm:"embedded;embeddedPrefix:payment_"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
