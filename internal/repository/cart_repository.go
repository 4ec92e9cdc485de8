package repository

import (
	"context"

	"shop-service/internal/domain"
)

type CartRepository interface {
	// FindByUserID returns nil, nil when the user has no cart yet.
	FindByUserID(ctx context.Context, userID uint64) (*domain.Cart, error)
	Create(ctx context.Context, cart *domain.Cart) error
	// Save persists the cart header and replaces its lines.
	Save(ctx context.Context, cart *domain.Cart) error
}
