package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "an internal error occurred, please try again"

// writeError renders a failed lookup or update. Missing entities are 404.
func (h *Handler) writeError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case errs.KindMalformedRequest, errs.KindInsufficientStock:
		status = http.StatusBadRequest
	case errs.KindNotFound:
		status = http.StatusNotFound
	}
	h.render(c, status, kind, err)
}

// writeRequestError renders a rejected write. Every validation failure,
// including a reference to a missing entity, is a 400.
func (h *Handler) writeRequestError(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case errs.KindMalformedRequest, errs.KindNotFound, errs.KindInsufficientStock:
		status = http.StatusBadRequest
	}
	h.render(c, status, kind, err)
}

// removeByID deletes the entity named by the :id path parameter
func (h *Handler) removeByID(c *gin.Context, entity string, remove func(context.Context, int64) error) {
	id, ok := h.idParam(c)
	if !ok {
		return
	}

	if err := remove(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": entity + " deleted",
		"id":      id,
	})
}

func (h *Handler) render(c *gin.Context, status int, kind string, err error) {
	body := gin.H{
		"status":  "error",
		"kind":    kind,
		"message": err.Error(),
	}

	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		body["message"] = internalErrorMessage
	}

	var se *errs.InsufficientStockError
	if errors.As(err, &se) {
		body["item_id"] = se.ItemID
		body["available"] = se.Available
		body["requested"] = se.Requested
	}

	c.JSON(status, body)
}

// bindJSON decodes the request body, writing a 400 on failure
func (h *Handler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.render(c, http.StatusBadRequest, errs.KindMalformedRequest,
			errs.Malformed("", "invalid JSON body: "+err.Error()))
		return false
	}
	return true
}

// idParam parses the :id path parameter, writing a 400 on failure
func (h *Handler) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.render(c, http.StatusBadRequest, errs.KindMalformedRequest, errs.Malformed("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// queryInt64 reads an optional integer query parameter
func (h *Handler) queryInt64(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		h.render(c, http.StatusBadRequest, errs.KindMalformedRequest, errs.Malformed(name, "must be a non-negative integer"))
		return 0, false
	}
	return n, true
}

// page reads the limit and offset query parameters
func (h *Handler) page(c *gin.Context) (limit, offset int, ok bool) {
	l, ok := h.queryInt64(c, "limit")
	if !ok {
		return 0, 0, false
	}
	o, ok := h.queryInt64(c, "offset")
	if !ok {
		return 0, 0, false
	}
	return int(l), int(o), true
}

// queryBool reads an optional boolean query parameter
func (h *Handler) queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		h.render(c, http.StatusBadRequest, errs.KindMalformedRequest, errs.Malformed(name, "must be true or false"))
		return nil, false
	}
	return &b, true
}

// queryTime reads an optional RFC 3339 or YYYY-MM-DD query parameter. With
// endOfDay a bare date means the last instant of that day.
func (h *Handler) queryTime(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		if endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, true
	}
	h.render(c, http.StatusBadRequest, errs.KindMalformedRequest, errs.Malformed(name, "must be a date (YYYY-MM-DD) or RFC 3339 time"))
	return nil, false
}
