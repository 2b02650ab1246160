package repository

import "context"

// EnsureIndexes creates the unique and TTL indexes the Mongo-backed
// repositories rely on. No-op for non-Mongo implementations (tests).
func EnsureIndexes(ctx context.Context, carts CartRepository, users UserRepository) error {
	if m, ok := carts.(*mongoCartRepository); ok {
		if err := m.CreateIndexes(ctx); err != nil {
			return err
		}
	}
	if m, ok := users.(*mongoUserRepository); ok {
		if err := m.CreateIndexes(ctx); err != nil {
			return err
		}
	}
	return nil
}
