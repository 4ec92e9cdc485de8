package mysql

import (
	"context"

	"shop-service/internal/repository"

	"gorm.io/gorm"
)

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) repository.TxManager {
	return &txManager{db: db}
}

// Do runs fn inside one gorm transaction. The unit of work handed to fn binds
// every repository call to that transaction; an error from fn rolls back.
func (m *txManager) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&unitOfWork{tx: tx})
	})
}

type unitOfWork struct {
	tx *gorm.DB
}

func (u *unitOfWork) Items() repository.ItemRepository {
	return NewItemRepository(u.tx)
}

func (u *unitOfWork) Orders() repository.OrderRepository {
	return NewOrderRepository(u.tx)
}
