package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPaid      OrderStatus = "paid"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions maps each status to the statuses an admin may move it to.
// Delivered and cancelled orders are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {},
	StatusCancelled: {},
}

func ValidStatus(s OrderStatus) bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID     uint64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID uint64      `json:"userId" gorm:"not null;index"`
	Lines  []OrderLine `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	// TotalAmount is fixed at placement from the captured line prices and is
	// never recomputed from the live catalog.
	TotalAmount float64     `json:"totalAmount" gorm:"not null"`
	Status      OrderStatus `json:"status" gorm:"type:enum('pending','paid','shipped','delivered','cancelled');default:'pending'"`
	// StockRestored guards against restocking the same order twice.
	StockRestored bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

type OrderLine struct {
	ID       uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID  uint64 `json:"-" gorm:"not null;index"`
	ItemID   uint64 `json:"itemId" gorm:"not null;index"`
	Quantity int64  `json:"quantity" gorm:"not null"`
	// Price is the unit price captured from the catalog at placement time.
	Price float64 `json:"price" gorm:"not null"`
}

// LineRequest is one (item, quantity) pair of a placement request.
type LineRequest struct {
	ItemID   uint64 `json:"itemId"`
	Quantity int64  `json:"quantity"`
}
