package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GobLyne/ECommerce/internal/domain"
)

// OrderService keeps a mocked, process-lifetime order history. Checkout is a
// payment stub: it snapshots the cart, records the order and clears the
// cart. Nothing here survives a restart and stock is never decremented.
type OrderService struct {
	carts *CartService

	mu     sync.RWMutex
	orders map[string][]domain.Order // userID -> history, oldest first
}

func NewOrderService(carts *CartService) *OrderService {
	return &OrderService{
		carts:  carts,
		orders: make(map[string][]domain.Order),
	}
}

// Checkout turns the user's current cart into an order and clears the cart.
// An empty cart cannot be checked out.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}

	order := domain.Order{
		ID:        uuid.New().String(),
		UserID:    userID,
		Items:     cart.Items,
		Total:     cart.Total,
		CreatedAt: time.Now(),
	}

	if err := s.carts.Clear(ctx, userID); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.orders[userID] = append(s.orders[userID], order)
	s.mu.Unlock()

	return &order, nil
}

// History returns a copy of the user's mocked order history, oldest first.
func (s *OrderService) History(userID string) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]domain.Order, len(s.orders[userID]))
	copy(history, s.orders[userID])
	return history
}
