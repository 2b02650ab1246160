package domain

import "time"

// Order is a snapshot of a cart taken at checkout. Orders live in memory
// only; the history is a demo convenience, not durable state.
type Order struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Items     []HydratedItem `json:"items"`
	Total     float64        `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
}
