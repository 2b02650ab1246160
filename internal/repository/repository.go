package repository

import (
	"context"

	"github.com/GobLyne/ECommerce/internal/domain"
)

// CartRepository defines the interface for cart data operations.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	// AddItem increments the quantity of an existing line or appends a new
	// one, creating the cart document on first use.
	AddItem(ctx context.Context, userID string, item domain.CartItem) error
	// UpdateItemQuantity sets an existing line to the given quantity.
	UpdateItemQuantity(ctx context.Context, userID string, productID int64, quantity int) error
	// DeleteItem removes a line that must exist.
	DeleteItem(ctx context.Context, userID string, productID int64) error
	// RemoveItem removes a line if present; absent lines are a no-op on an
	// existing cart.
	RemoveItem(ctx context.Context, userID string, productID int64) error
	// ClearCart empties the item list but keeps the cart document.
	ClearCart(ctx context.Context, userID string) error
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) (*domain.User, error)
}
