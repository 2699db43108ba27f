package models

import "gorm.io/gorm"

// CartItem is one line in a user's cart. Price, Name and Image are
// snapshots of the product at the time the line was added.
type CartItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"type:varchar(36)"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
}

// Cart is a per-user collection of cart items plus a derived bill.
// Bill must equal the sum of quantity*price over all items after every
// successful mutation; it is recomputed on write, never trusted on read.
type Cart struct {
	ID         string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items      []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Bill       float64    `json:"bill"`
	gorm.Model            // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// RecalculateBill recomputes the derived bill from the item lines.
func (c *Cart) RecalculateBill() {
	var bill float64
	for _, item := range c.Items {
		bill += float64(item.Quantity) * item.Price
	}
	c.Bill = bill
}

// FindItem returns the index of the line holding productID, or -1.
func (c *Cart) FindItem(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
