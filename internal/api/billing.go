package api

import (
	"net/http"

	"inventory-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createInvoice(c *gin.Context) {
	var req service.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.services.Billing.CreateInvoice(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) getInvoice(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	inv, err := h.services.Billing.GetInvoice(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

func (h *Handler) deleteInvoice(c *gin.Context) {
	h.removeByID(c, "Invoice", h.services.Billing.DeleteInvoice)
}

func (h *Handler) listInvoices(c *gin.Context) {
	limit, offset, ok := h.page(c)
	if !ok {
		return
	}

	invoices, err := h.services.Billing.ListInvoices(c.Request.Context(), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *Handler) createBill(c *gin.Context) {
	var req service.BillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	bill, err := h.services.Billing.CreateBill(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// listBills filters on ?paid=true|false
func (h *Handler) listBills(c *gin.Context) {
	paid, ok := h.queryBool(c, "paid")
	if !ok {
		return
	}
	limit, offset, ok := h.page(c)
	if !ok {
		return
	}

	bills, err := h.services.Billing.ListBills(c.Request.Context(), paid, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bills": bills})
}

type billPaidRequest struct {
	Paid bool `json:"paid"`
}

func (h *Handler) getBill(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	bill, err := h.services.Billing.GetBill(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, bill)
}

func (h *Handler) deleteBill(c *gin.Context) {
	h.removeByID(c, "Bill", h.services.Billing.DeleteBill)
}

func (h *Handler) setBillPaid(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req billPaidRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.services.Billing.SetBillPaid(c.Request.Context(), id, req.Paid); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "paid": req.Paid})
}

func (h *Handler) createDelivery(c *gin.Context) {
	var req service.DeliveryRequest
	if !h.bindJSON(c, &req) {
		return
	}

	d, err := h.services.Billing.CreateDelivery(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, d)
}

// listDeliveries filters on ?delivered=true|false
func (h *Handler) listDeliveries(c *gin.Context) {
	delivered, ok := h.queryBool(c, "delivered")
	if !ok {
		return
	}
	limit, offset, ok := h.page(c)
	if !ok {
		return
	}

	deliveries, err := h.services.Billing.ListDeliveries(c.Request.Context(), delivered, limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deliveries": deliveries})
}

func (h *Handler) getDelivery(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	delivery, err := h.services.Billing.GetDelivery(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, delivery)
}

func (h *Handler) deleteDelivery(c *gin.Context) {
	h.removeByID(c, "Delivery", h.services.Billing.DeleteDelivery)
}

func (h *Handler) markDelivered(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := h.services.Billing.MarkDelivered(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "is_delivered": true})
}
