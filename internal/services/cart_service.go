package services

import (
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService handles business logic for per-user shopping carts.
//
// Every mutation is a read-modify-write of the whole cart document followed
// by a bill recomputation; there is no optimistic concurrency token, so
// concurrent mutations of the same cart are last-writer-wins.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetOrCreateCart returns the user's cart, lazily creating an empty one on
// first use.
func (s *CartService) GetOrCreateCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	cart = &models.Cart{
		UserID: userID,
		Items:  []models.CartItem{},
		Bill:   0,
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, fmt.Errorf("failed to create cart for user %s: %w", userID, err)
	}
	return cart, nil
}

// AddItem adds quantity of a product to the user's cart. If the product is
// already in the cart the quantities are summed onto the existing line;
// otherwise a new line is appended with a snapshot of the product's current
// price, name and image. Products that do not exist or are inactive are
// rejected.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	cart, err := s.GetOrCreateCart(userID)
	if err != nil {
		return nil, err
	}

	if idx := cart.FindItem(productID); idx > -1 {
		cart.Items[idx].Quantity += quantity
	} else {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
			Name:      product.Name,
			Image:     product.Image,
		})
	}

	cart.RecalculateBill()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateItem sets an existing line's quantity directly. A quantity of zero
// or less removes the line.
func (s *CartService) UpdateItem(userID, productID string, quantity int) (*models.Cart, error) {
	cart, err := s.getCart(userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx == -1 {
		return nil, ErrItemNotFound
	}

	if quantity <= 0 {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	} else {
		cart.Items[idx].Quantity = quantity
	}

	cart.RecalculateBill()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes the line holding productID from the user's cart.
func (s *CartService) RemoveItem(userID, productID string) (*models.Cart, error) {
	cart, err := s.getCart(userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx == -1 {
		return nil, ErrItemNotFound
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.RecalculateBill()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart empties the user's cart and zeroes its bill. The cart document
// itself survives; clearing an already-empty cart succeeds.
func (s *CartService) ClearCart(userID string) (*models.Cart, error) {
	cart, err := s.getCart(userID)
	if err != nil {
		return nil, err
	}

	cart.Items = []models.CartItem{}
	cart.Bill = 0
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) getCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}
