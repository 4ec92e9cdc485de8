package http

import (
	"shop-service/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"orders": orders})
}

func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "items array is required"})
		return
	}

	lines := make([]domain.LineRequest, 0, len(req.Items))
	for _, l := range req.Items {
		lines = append(lines, domain.LineRequest{ItemID: l.ItemID, Quantity: l.Quantity})
	}

	order, err := h.orders.PlaceOrder(c.Request.Context(), currentUser(c).ID, lines)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 201, gin.H{"order": order})
}

func (h *Handler) ListAllOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"orders": orders})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "status is required"})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"order": order})
}
