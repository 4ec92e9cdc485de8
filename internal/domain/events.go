package domain

import "time"

const (
	TopicOrderCreated       = "order.created"
	TopicOrderStatusChanged = "order.status_changed"
	TopicCartUpdated        = "cart.updated"
	TopicItemStockChanged   = "item.stock_changed"
)

type OrderCreatedEvent struct {
	OrderID     uint64    `json:"orderId"`
	UserID      uint64    `json:"userId"`
	TotalAmount float64   `json:"totalAmount"`
	ItemsCount  int       `json:"itemsCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID uint64      `json:"orderId"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

type CartUpdatedEvent struct {
	UserID     uint64  `json:"userId"`
	ItemsCount int     `json:"itemsCount"`
	TotalPrice float64 `json:"totalPrice"`
}

type ItemStockChangedEvent struct {
	ItemID uint64 `json:"itemId"`
	Delta  int64  `json:"delta"`
	Stock  int64  `json:"stock"`
}
