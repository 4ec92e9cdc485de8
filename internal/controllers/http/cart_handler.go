package http

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.cart.Get(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"cart": cart})
}

func (h *Handler) AddCartItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid item or quantity"})
		return
	}

	cart, err := h.cart.AddItem(c.Request.Context(), currentUser(c).ID, req.ItemID, req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 201, gin.H{"cart": cart})
}

func (h *Handler) UpdateCartLine(c *gin.Context) {
	itemID, err := parseID(c, "itemId")
	if err != nil {
		fail(c, err)
		return
	}

	var req UpdateCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "invalid quantity"})
		return
	}

	cart, err := h.cart.UpdateLine(c.Request.Context(), currentUser(c).ID, itemID, *req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"cart": cart})
}

func (h *Handler) RemoveCartLine(c *gin.Context) {
	itemID, err := parseID(c, "itemId")
	if err != nil {
		fail(c, err)
		return
	}

	cart, err := h.cart.RemoveLine(c.Request.Context(), currentUser(c).ID, itemID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"cart": cart})
}

func (h *Handler) ClearCart(c *gin.Context) {
	cart, err := h.cart.Clear(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"cart": cart})
}
