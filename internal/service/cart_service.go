package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/GobLyne/ECommerce/internal/cache"
	"github.com/GobLyne/ECommerce/internal/catalog"
	"github.com/GobLyne/ECommerce/internal/domain"
	"github.com/GobLyne/ECommerce/internal/repository"
	"github.com/GobLyne/ECommerce/pkg/logger"
)

type CartService struct {
	repo    repository.CartRepository
	catalog catalog.Repository
	cache   cache.CartCache
	sfg     singleflight.Group // prevents cache stampede
}

func NewCartService(repo repository.CartRepository, cat catalog.Repository, cache cache.CartCache) *CartService {
	return &CartService{
		repo:    repo,
		catalog: cat,
		cache:   cache,
	}
}

// rawCart returns the stored cart document, serving an empty cart when the
// user has never added anything. Cache-aside with singleflight so concurrent
// misses for the same user hit Mongo once.
func (s *CartService) rawCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.FromCtx(ctx).Warn("cart cache get failed", "error", err) // log and fall through to Mongo
		}

		cart, errGet := s.repo.GetCart(ctx, userID)
		if errors.Is(errGet, domain.ErrCartNotFound) {
			return &domain.Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		// Synchronous on purpose: a detached fill could land after a later
		// invalidation and pin a stale cart until the TTL expires.
		if errSet := s.cache.Set(ctx, userID, cart); errSet != nil {
			logger.FromCtx(ctx).Warn("cart cache set failed", "error", errSet)
		}

		return cart, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Cart), nil
}

// Get returns the user's cart with product details joined in. Lines whose
// product no longer exists in the catalog are dropped from the view, and the
// total is recomputed on every call.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.HydratedCart, error) {
	cart, err := s.rawCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrate(ctx, cart)
}

func (s *CartService) hydrate(ctx context.Context, cart *domain.Cart) (*domain.HydratedCart, error) {
	hydrated := &domain.HydratedCart{
		UserID:    cart.UserID,
		Items:     []domain.HydratedItem{},
		UpdatedAt: cart.UpdatedAt,
	}

	for _, item := range cart.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if errors.Is(err, domain.ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		lineTotal := product.Price * float64(item.Quantity)
		hydrated.Items = append(hydrated.Items, domain.HydratedItem{
			Product:   *product,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
		})
		hydrated.Total += lineTotal
	}

	return hydrated, nil
}

// Add puts qty units of a product into the user's cart, creating the cart
// lazily and summing quantities for a line that already exists.
func (s *CartService) Add(ctx context.Context, userID string, productID int64, qty int) (*domain.HydratedCart, error) {
	if qty <= 0 {
		qty = 1
	}

	// Validate the product before touching the cart.
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	item := domain.CartItem{
		ProductID: productID,
		Quantity:  qty,
		AddedAt:   time.Now(),
	}

	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return s.Get(ctx, userID)
}

// Update sets a line's quantity; a target of zero or less deletes the line
// instead of storing a non-positive quantity.
func (s *CartService) Update(ctx context.Context, userID string, productID int64, qty int) (*domain.HydratedCart, error) {
	var err error
	if qty <= 0 {
		err = s.repo.DeleteItem(ctx, userID, productID)
	} else {
		err = s.repo.UpdateItemQuantity(ctx, userID, productID, qty)
	}
	if err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return s.Get(ctx, userID)
}

// Remove deletes a line if present. Removing an absent line from an
// existing cart is a no-op; a missing cart is an error.
func (s *CartService) Remove(ctx context.Context, userID string, productID int64) (*domain.HydratedCart, error) {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	s.invalidateCache(userID)
	return s.Get(ctx, userID)
}

// Clear empties the cart's line list; the cart document itself survives.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		logger.Warn("cart cache invalidate failed", "error", err)
	}
}
