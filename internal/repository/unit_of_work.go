package repository

import "context"

// UnitOfWork exposes repositories bound to one storage transaction. Every
// read and write of a placement or cancellation attempt goes through the same
// unit so the whole attempt commits or rolls back together.
type UnitOfWork interface {
	Items() ItemRepository
	Orders() OrderRepository
}

// TxManager runs fn inside a transaction. Returning an error from fn rolls
// everything back; returning nil commits.
type TxManager interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
}
