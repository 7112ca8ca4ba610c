package api

import (
	"fmt"
	"net/http"

	"inventory-service/internal/service"
	"inventory-service/internal/store"

	"github.com/gin-gonic/gin"
)

// createSale records a sale. An Idempotency-Key header fills in a missing
// idempotency_key in the body.
func (h *Handler) createSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	resp, err := h.services.Sales.CreateSale(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	message := "Sale created successfully!"
	if resp.Duplicate {
		message = "Sale already recorded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  message,
		"redirect": fmt.Sprintf("/api/v1/sales/%d", resp.SaleID),
		"sale_id":  resp.SaleID,
		"stock":    resp.Stock,
	})
}

func (h *Handler) getSale(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	view, err := h.services.Sales.GetSale(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) listSales(c *gin.Context) {
	customerID, ok := h.queryInt64(c, "customer_id")
	if !ok {
		return
	}
	from, ok := h.queryTime(c, "from", false)
	if !ok {
		return
	}
	to, ok := h.queryTime(c, "to", true)
	if !ok {
		return
	}
	limit, offset, ok := h.page(c)
	if !ok {
		return
	}

	sales, err := h.services.Sales.ListSales(c.Request.Context(), store.SaleFilter{
		CustomerID: customerID,
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

// deleteSale removes a sale and restores its stock
func (h *Handler) deleteSale(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	view, err := h.services.Sales.DeleteSale(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Sale deleted",
		"sale":    view,
	})
}
