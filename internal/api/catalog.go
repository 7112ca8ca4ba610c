package api

import (
	"net/http"
	"strconv"

	"inventory-service/internal/errs"
	"inventory-service/internal/service"
	"inventory-service/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createCategory(c *gin.Context) {
	var req service.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.services.Inventory.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req service.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	category, err := h.services.Inventory.UpdateCategory(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// deleteCategory refuses categories that still hold items
func (h *Handler) deleteCategory(c *gin.Context) {
	h.removeByID(c, "Category", h.services.Inventory.DeleteCategory)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.services.Inventory.ListCategories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) createItem(c *gin.Context) {
	var req service.ItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.services.Inventory.CreateItem(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateItem(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req service.ItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.services.Inventory.UpdateItem(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// deleteItem refuses items that appear on a sale
func (h *Handler) deleteItem(c *gin.Context) {
	h.removeByID(c, "Item", h.services.Inventory.DeleteItem)
}

func (h *Handler) getItem(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	item, err := h.services.Inventory.GetItem(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

func (h *Handler) listItems(c *gin.Context) {
	categoryID, ok := h.queryInt64(c, "category_id")
	if !ok {
		return
	}
	limit, offset, ok := h.page(c)
	if !ok {
		return
	}

	items, err := h.services.Inventory.ListItems(c.Request.Context(), store.ItemFilter{
		Query:      c.Query("q"),
		CategoryID: categoryID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// getStock returns an item's stock level, served from the cache when warm
func (h *Handler) getStock(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	level, err := h.services.Inventory.GetStock(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, level)
}

// lowStock lists items at or under ?threshold, or the configured one
func (h *Handler) lowStock(c *gin.Context) {
	threshold := int64(-1)
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			h.writeError(c, errs.Malformed("threshold", "must be a non-negative integer"))
			return
		}
		threshold = n
	}

	levels, err := h.services.Inventory.LowStock(c.Request.Context(), threshold)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": levels})
}

func (h *Handler) dashboard(c *gin.Context) {
	d, err := h.services.Inventory.Dashboard(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}
