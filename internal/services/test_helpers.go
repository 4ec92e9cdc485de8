package services

import (
	"time"

	"shop-service/internal/domain"
)

func CreateTestItem(id uint64, name string, price float64, stock int64, active bool) *domain.Item {
	return &domain.Item{
		ID:       id,
		Name:     name,
		Price:    price,
		Stock:    stock,
		IsActive: active,
	}
}

func CreateTestOrder(id, userID uint64, status domain.OrderStatus, lines ...domain.OrderLine) *domain.Order {
	var total float64
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
	}
	return &domain.Order{
		ID:          id,
		UserID:      userID,
		Lines:       lines,
		TotalAmount: total,
		Status:      status,
		CreatedAt:   time.Now(),
	}
}

func CreateTestUser(id uint64, email, role string) *domain.User {
	return &domain.User{
		ID:    id,
		Name:  "Test User",
		Email: email,
		Role:  domain.Role{ID: 1, Name: role},
	}
}

const (
	TestUserID  = uint64(42)
	TestOrderID = uint64(7)
)
