package http

import (
	"strconv"

	"shop-service/internal/domain"
	"shop-service/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.catalog.ListItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"items": items})
}

func (h *Handler) GetItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	item, err := h.catalog.GetItem(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"item": item})
}

func (h *Handler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	imagePath, err := h.saveUploadedImage(c)
	if err != nil {
		fail(c, err)
		return
	}

	item, err := h.catalog.CreateItem(c.Request.Context(), &domain.Item{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       imagePath,
	})
	if err != nil {
		fail(c, err)
		return
	}

	ok(c, 201, gin.H{"item": item})
}

func (h *Handler) UpdateItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": err.Error()})
		return
	}

	upd := services.ItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    req.IsActive,
	}

	imagePath, err := h.saveUploadedImage(c)
	if err != nil {
		fail(c, err)
		return
	}
	if imagePath != "" {
		upd.Image = &imagePath
	}

	item, err := h.catalog.UpdateItem(c.Request.Context(), id, upd)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"item": item})
}

func (h *Handler) DeleteItem(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		fail(c, err)
		return
	}

	if err := h.catalog.DeleteItem(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, 200, gin.H{"message": "item deleted successfully"})
}

// saveUploadedImage stores an optional multipart "image" file and returns
// its public path, or "" when no file was sent.
func (h *Handler) saveUploadedImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path, err := h.images.Save(src, file.Filename)
	if err != nil {
		return "", domain.E(domain.KindValidation, "%s", err.Error())
	}
	return path, nil
}

func parseID(c *gin.Context, param string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, domain.E(domain.KindValidation, "invalid id")
	}
	return id, nil
}
