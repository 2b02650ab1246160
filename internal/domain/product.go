package domain

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category,omitempty"`
	ImageURL    string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

// InStock reports whether the product can currently be bought.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// SearchResult is the trimmed product view returned by chat-triggered search.
type SearchResult struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
	InStock  bool    `json:"inStock"`
	Stock    int     `json:"stock"`
}
