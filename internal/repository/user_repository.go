package repository

import (
	"context"

	"shop-service/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByID and FindByEmail return nil, nil when no user matches.
	FindByID(ctx context.Context, id uint64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	FindRoleByName(ctx context.Context, name string) (*domain.Role, error)
}
