package catalog

import (
	"context"
	"fmt"

	"github.com/GobLyne/ECommerce/internal/domain"
)

// seedProducts is the demo clothing catalog loaded into an empty store.
var seedProducts = []domain.Product{
	{
		Name:        "Classic White T-Shirt",
		Price:       29.99,
		Description: "Comfortable cotton t-shirt perfect for everyday wear. Made from 100% organic cotton.",
		ImageURL:    "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop&crop=center",
		Category:    "T-Shirts",
		Stock:       50,
	},
	{
		Name:        "Vintage Denim Jacket",
		Price:       89.99,
		Description: "Classic denim jacket with a vintage wash. Perfect for layering and casual outfits.",
		ImageURL:    "https://images.unsplash.com/photo-1551698618-1dfe5d97d256?w=400&h=400&fit=crop&crop=center",
		Category:    "Jackets",
		Stock:       25,
	},
	{
		Name:        "Slim Fit Chinos",
		Price:       59.99,
		Description: "Versatile chino pants with a modern slim fit. Great for both casual and semi-formal occasions.",
		ImageURL:    "https://images.unsplash.com/photo-1473966968600-fa801b869a1a?w=400&h=400&fit=crop&crop=center",
		Category:    "Pants",
		Stock:       40,
	},
	{
		Name:        "Cozy Knit Sweater",
		Price:       79.99,
		Description: "Soft wool blend sweater perfect for cooler weather. Features a classic crew neck design.",
		ImageURL:    "https://images.unsplash.com/photo-1434389677669-e08b4cac3105?w=400&h=400&fit=crop&crop=center",
		Category:    "Sweaters",
		Stock:       30,
	},
	{
		Name:        "Casual Button-Up Shirt",
		Price:       49.99,
		Description: "Lightweight cotton shirt perfect for layering or wearing on its own. Features a relaxed fit.",
		ImageURL:    "https://images.unsplash.com/photo-1596755094514-f87e34085b2c?w=400&h=400&fit=crop&crop=center",
		Category:    "Shirts",
		Stock:       35,
	},
	{
		Name:        "Athletic Joggers",
		Price:       45.99,
		Description: "Comfortable joggers made from moisture-wicking fabric. Perfect for workouts or lounging.",
		ImageURL:    "https://images.unsplash.com/photo-1506629905542-b5842f25cd6b?w=400&h=400&fit=crop&crop=center",
		Category:    "Activewear",
		Stock:       0,
	},
}

// Seed inserts the demo catalog when the products table is empty. It is a
// no-op on a store that already holds products, so restarts are safe.
func (r *SQLiteRepository) Seed(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := range seedProducts {
		p := seedProducts[i]
		if err := r.CreateProduct(ctx, &p); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", p.Name, err)
		}
	}

	return nil
}
