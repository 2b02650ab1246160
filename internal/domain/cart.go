package domain

import "time"

type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

type CartItem struct {
	ProductID int64     `bson:"product_id" json:"product_id"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"added_at"`
}

// HydratedCart is a cart with product details joined in. It is rebuilt from
// the catalog on every read, so prices and totals are never stale.
type HydratedCart struct {
	UserID    string         `json:"user_id"`
	Items     []HydratedItem `json:"items"`
	Total     float64        `json:"total"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type HydratedItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}
