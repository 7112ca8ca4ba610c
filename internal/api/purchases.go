package api

import (
	"net/http"

	"inventory-service/internal/service"
	"inventory-service/internal/store"

	"github.com/gin-gonic/gin"
)

func (h *Handler) recordPurchase(c *gin.Context) {
	var req service.RecordPurchaseRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.services.Purchases.RecordPurchase(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) getPurchase(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	p, err := h.services.Purchases.GetPurchase(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *Handler) listPurchases(c *gin.Context) {
	itemID, ok := h.queryInt64(c, "item_id")
	if !ok {
		return
	}
	vendorID, ok := h.queryInt64(c, "vendor_id")
	if !ok {
		return
	}
	limit, offset, ok := h.page(c)
	if !ok {
		return
	}

	purchases, err := h.services.Purchases.ListPurchases(c.Request.Context(), store.PurchaseFilter{
		ItemID:         itemID,
		VendorID:       vendorID,
		DeliveryStatus: c.Query("delivery_status"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

type deliveryStatusRequest struct {
	DeliveryStatus string `json:"delivery_status"`
}

func (h *Handler) updatePurchaseDelivery(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req deliveryStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.services.Purchases.UpdateDeliveryStatus(c.Request.Context(), id, req.DeliveryStatus)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}
