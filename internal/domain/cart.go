package domain

import "time"

type Cart struct {
	ID         uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint64     `json:"userId" gorm:"not null;uniqueIndex"`
	Lines      []CartLine `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	TotalPrice float64    `json:"totalPrice" gorm:"not null;default:0"`
	UpdatedAt  time.Time  `json:"updatedAt" gorm:"autoUpdateTime"`
}

type CartLine struct {
	ID       uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	CartID   uint64 `json:"-" gorm:"not null;index"`
	ItemID   uint64 `json:"itemId" gorm:"not null;index"`
	Quantity int64  `json:"quantity" gorm:"not null"`
}

// Line returns the cart line for itemID, or nil if the item is not in the cart.
func (c *Cart) Line(itemID uint64) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			return &c.Lines[i]
		}
	}
	return nil
}
