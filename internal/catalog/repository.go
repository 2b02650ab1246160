package catalog

import (
	"context"

	"github.com/GobLyne/ECommerce/internal/domain"
)

// SearchLimit caps chat-triggered product search results.
const SearchLimit = 5

// Repository defines catalog data operations. Consumers define this
// interface, not the SQLite implementation.
type Repository interface {
	GetAllProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, p *domain.Product) error
	SearchProducts(ctx context.Context, query string) ([]*domain.Product, error)
	Close() error
}
