package api

import (
	"net/http"

	"inventory-service/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) createCustomer(c *gin.Context) {
	var req service.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.services.Accounts.CreateCustomer(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	customer, err := h.services.Accounts.GetCustomer(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req service.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	customer, err := h.services.Accounts.UpdateCustomer(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	h.removeByID(c, "Customer", h.services.Accounts.DeleteCustomer)
}

// listCustomers searches customers by name with ?q
func (h *Handler) listCustomers(c *gin.Context) {
	limit, offset, ok := h.page(c)
	if !ok {
		return
	}

	customers, err := h.services.Accounts.ListCustomers(c.Request.Context(), c.Query("q"), limit, offset)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) createVendor(c *gin.Context) {
	var req service.VendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.services.Accounts.CreateVendor(c.Request.Context(), &req)
	if err != nil {
		h.writeRequestError(c, err)
		return
	}

	c.JSON(http.StatusCreated, vendor)
}

func (h *Handler) getVendor(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	vendor, err := h.services.Accounts.GetVendor(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

func (h *Handler) updateVendor(c *gin.Context) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}
	var req service.VendorRequest
	if !h.bindJSON(c, &req) {
		return
	}

	vendor, err := h.services.Accounts.UpdateVendor(c.Request.Context(), id, &req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, vendor)
}

func (h *Handler) deleteVendor(c *gin.Context) {
	h.removeByID(c, "Vendor", h.services.Accounts.DeleteVendor)
}

func (h *Handler) listVendors(c *gin.Context) {
	vendors, err := h.services.Accounts.ListVendors(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}
