package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Pinger is a dependency checked by the readiness endpoint
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services groups the services behind the HTTP API
type Services struct {
	Sales     *service.SaleService
	Purchases *service.PurchaseService
	Inventory *service.InventoryService
	Accounts  *service.AccountService
	Billing   *service.BillingService
}

// Handler contains HTTP handlers
type Handler struct {
	services Services
	checks   map[string]Pinger
	logger   *zap.Logger
}

// NewHandler creates a new HTTP handler. checks are pinged by /ready.
func NewHandler(services Services, checks map[string]Pinger) *Handler {
	return &Handler{
		services: services,
		checks:   checks,
		logger:   util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes. An empty allowedOrigins allows any origin.
func (h *Handler) SetupRoutes(router *gin.Engine, allowedOrigins []string) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/sales", h.createSale)
		v1.GET("/sales", h.listSales)
		v1.GET("/sales/:id", h.getSale)
		v1.DELETE("/sales/:id", h.deleteSale)

		v1.POST("/purchases", h.recordPurchase)
		v1.GET("/purchases", h.listPurchases)
		v1.GET("/purchases/:id", h.getPurchase)
		v1.PATCH("/purchases/:id/delivery", h.updatePurchaseDelivery)

		v1.POST("/categories", h.createCategory)
		v1.GET("/categories", h.listCategories)
		v1.PUT("/categories/:id", h.updateCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)

		v1.POST("/items", h.createItem)
		v1.GET("/items", h.listItems)
		v1.GET("/items/low-stock", h.lowStock)
		v1.GET("/items/:id", h.getItem)
		v1.PUT("/items/:id", h.updateItem)
		v1.DELETE("/items/:id", h.deleteItem)
		v1.GET("/items/:id/stock", h.getStock)

		v1.POST("/customers", h.createCustomer)
		v1.GET("/customers", h.listCustomers)
		v1.GET("/customers/:id", h.getCustomer)
		v1.PUT("/customers/:id", h.updateCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)

		v1.POST("/vendors", h.createVendor)
		v1.GET("/vendors", h.listVendors)
		v1.GET("/vendors/:id", h.getVendor)
		v1.PUT("/vendors/:id", h.updateVendor)
		v1.DELETE("/vendors/:id", h.deleteVendor)

		v1.POST("/invoices", h.createInvoice)
		v1.GET("/invoices", h.listInvoices)
		v1.GET("/invoices/:id", h.getInvoice)
		v1.DELETE("/invoices/:id", h.deleteInvoice)

		v1.POST("/bills", h.createBill)
		v1.GET("/bills", h.listBills)
		v1.GET("/bills/:id", h.getBill)
		v1.DELETE("/bills/:id", h.deleteBill)
		v1.PATCH("/bills/:id/paid", h.setBillPaid)

		v1.POST("/deliveries", h.createDelivery)
		v1.GET("/deliveries", h.listDeliveries)
		v1.GET("/deliveries/:id", h.getDelivery)
		v1.DELETE("/deliveries/:id", h.deleteDelivery)
		v1.PATCH("/deliveries/:id/delivered", h.markDelivered)

		v1.GET("/dashboard", h.dashboard)
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	cfg.AddAllowMethods("PATCH")
	cfg.AddAllowHeaders("Authorization", "Idempotency-Key")
	cfg.AddExposeHeaders("Content-Length")
	return cfg
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck pings every dependency
func (h *Handler) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	failed := gin.H{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("Readiness check failed", zap.String("dependency", name), zap.Error(err))
			failed[name] = "unavailable"
		}
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":       "not ready",
			"dependencies": failed,
			"time":         time.Now().Unix(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
