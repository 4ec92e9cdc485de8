package repository

import (
	"context"

	"shop-service/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id uint64) error
	FindByID(ctx context.Context, id uint64) (*domain.Item, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Item, error)
	FindAll(ctx context.Context) ([]domain.Item, error)

	// FindForUpdate reads an item holding a row lock for the duration of the
	// surrounding unit of work. Outside a unit of work it degrades to a plain
	// read.
	FindForUpdate(ctx context.Context, id uint64) (*domain.Item, error)
	// AdjustStock adds delta (may be negative) to the item's stock count.
	AdjustStock(ctx context.Context, id uint64, delta int64) error
}
