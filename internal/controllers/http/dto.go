package http

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	RoleName string `json:"roleName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateItemRequest struct {
	Name        string  `form:"name" binding:"required"`
	Description string  `form:"description"`
	SKU         string  `form:"sku"`
	Price       float64 `form:"price" binding:"required"`
	Stock       int64   `form:"stock"`
}

type UpdateItemRequest struct {
	Name        *string  `form:"name"`
	Description *string  `form:"description"`
	SKU         *string  `form:"sku"`
	Price       *float64 `form:"price"`
	Stock       *int64   `form:"stock"`
	IsActive    *bool    `form:"isActive"`
}

type AddCartItemRequest struct {
	ItemID   uint64 `json:"item" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required,min=1"`
}

type UpdateCartLineRequest struct {
	// pointer so an explicit zero (remove the line) passes validation
	Quantity *int64 `json:"quantity" binding:"required,min=0"`
}

type OrderLineRequest struct {
	ItemID   uint64 `json:"item"`
	Quantity int64  `json:"quantity"`
}

// PlaceOrderRequest leaves per-line validation to the service so errors can
// be index-qualified.
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items" binding:"required"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
