package service

import (
	"context"
	"strings"
	"time"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryService manages the catalog and reads stock levels
type InventoryService struct {
	store             *store.Store
	cache             StockCache
	lowStockThreshold int64
	logger            *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(store *store.Store, cache StockCache, lowStockThreshold int64) *InventoryService {
	return &InventoryService{
		store:             store,
		cache:             cache,
		lowStockThreshold: lowStockThreshold,
		logger:            util.GetLogger(),
	}
}

// CategoryRequest represents a category to create or rename
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// ItemRequest represents an item to create or update. Quantity is only
// read on create.
type ItemRequest struct {
	Name        string           `json:"name" validate:"required,max=50"`
	Description string           `json:"description" validate:"max=256"`
	CategoryID  int64            `json:"category_id" validate:"required,gt=0"`
	VendorID    *int64           `json:"vendor_id" validate:"omitempty,gt=0"`
	Quantity    int64            `json:"quantity" validate:"gte=0"`
	Price       *decimal.Decimal `json:"price"`
	ExpiresAt   *time.Time       `json:"expires_at"`
}

// CreateCategory creates a category
func (s *InventoryService) CreateCategory(ctx context.Context, req *CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	c := &models.Category{Name: req.Name}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, errs.Persistence("create category", err)
	}
	return c, nil
}

// UpdateCategory renames a category
func (s *InventoryService) UpdateCategory(ctx context.Context, id int64, req *CategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	c := &models.Category{ID: id, Name: req.Name}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, errs.Persistence("update category", err)
	}
	return c, nil
}

// DeleteCategory removes an empty category
func (s *InventoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return errs.Persistence("delete category", err)
	}
	return nil
}

// ListCategories lists categories
func (s *InventoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	return categories, errs.Persistence("list categories", err)
}

// CreateItem creates an item with its opening stock
func (s *InventoryService) CreateItem(ctx context.Context, req *ItemRequest) (*models.Item, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.CreateItem")
	defer span.End()

	item, err := s.itemFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	item.Quantity = req.Quantity

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, errs.Persistence("create item", err)
	}
	refreshStock(ctx, s.cache, s.logger, []models.StockLevel{{
		ItemID: item.ID, Name: item.Name, Quantity: item.Quantity, Version: item.Version,
	}})

	s.logger.Info("Item created", zap.Int64("item_id", item.ID), zap.String("name", item.Name))
	return item, nil
}

// UpdateItem changes an item's catalog fields, never its stock
func (s *InventoryService) UpdateItem(ctx context.Context, id int64, req *ItemRequest) (*models.Item, error) {
	item, err := s.itemFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	item.ID = id

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, errs.Persistence("update item", err)
	}
	return s.GetItem(ctx, id)
}

// DeleteItem removes an item that was never sold and drops its cached stock
func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	if err := s.store.DeleteItem(ctx, id); err != nil {
		return errs.Persistence("delete item", err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateStock(ctx, id); err != nil {
			s.logger.Warn("Failed to invalidate stock cache", zap.Int64("item_id", id), zap.Error(err))
		}
	}
	s.logger.Info("Item deleted", zap.Int64("item_id", id))
	return nil
}

func (s *InventoryService) itemFromRequest(ctx context.Context, req *ItemRequest) (*models.Item, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	price, err := optionalAmount("price", req.Price)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetCategoryByID(ctx, req.CategoryID); err != nil {
		return nil, errs.Persistence("get category", err)
	}
	if req.VendorID != nil {
		if _, err := s.store.GetVendorByID(ctx, *req.VendorID); err != nil {
			return nil, errs.Persistence("get vendor", err)
		}
	}

	return &models.Item{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		VendorID:    req.VendorID,
		Price:       price,
		ExpiresAt:   req.ExpiresAt,
	}, nil
}

// GetItem retrieves an item by ID
func (s *InventoryService) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.store.GetItemByID(ctx, id)
	return item, errs.Persistence("get item", err)
}

// ListItems lists items matching the filter
func (s *InventoryService) ListItems(ctx context.Context, f store.ItemFilter) ([]models.Item, error) {
	items, err := s.store.ListItems(ctx, f)
	return items, errs.Persistence("list items", err)
}

// GetStock returns an item's stock level, from the cache when it holds one
func (s *InventoryService) GetStock(ctx context.Context, itemID int64) (*models.StockLevel, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.GetStock")
	defer span.End()

	if s.cache != nil {
		level, err := s.cache.GetStock(ctx, itemID)
		switch {
		case err != nil:
			util.StockCacheRequestsTotal.WithLabelValues("error").Inc()
			s.logger.Warn("Stock cache read failed", zap.Int64("item_id", itemID), zap.Error(err))
		case level != nil:
			util.StockCacheRequestsTotal.WithLabelValues("hit").Inc()
			return level, nil
		default:
			util.StockCacheRequestsTotal.WithLabelValues("miss").Inc()
		}
	}

	levels, err := s.store.GetStockLevels(ctx, []int64{itemID})
	if err != nil {
		return nil, errs.Persistence("get stock", err)
	}
	if len(levels) == 0 {
		return nil, errs.NotFound("item", itemID)
	}
	refreshStock(ctx, s.cache, s.logger, levels)
	return &levels[0], nil
}

// SyncStockCache loads every stock level into the cache
func (s *InventoryService) SyncStockCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	levels, err := s.store.ListStockLevels(ctx)
	if err != nil {
		return errs.Persistence("list stock levels", err)
	}
	refreshStock(ctx, s.cache, s.logger, levels)
	s.logger.Info("Stock cache synced", zap.Int("items", len(levels)))
	return nil
}

// LowStock lists items at or below threshold, or the configured threshold
// when threshold is negative
func (s *InventoryService) LowStock(ctx context.Context, threshold int64) ([]models.StockLevel, error) {
	if threshold < 0 {
		threshold = s.lowStockThreshold
	}
	levels, err := s.store.ListLowStock(ctx, threshold)
	return levels, errs.Persistence("list low stock", err)
}

// Dashboard returns the headline counts
func (s *InventoryService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	d, err := s.store.GetDashboard(ctx)
	return d, errs.Persistence("get dashboard", err)
}

// HandleStockLow records a low stock alert
func (s *InventoryService) HandleStockLow(ctx context.Context, event *models.StockLowEvent) error {
	util.LowStockAlertsTotal.Inc()
	s.logger.Warn("Item stock is low",
		zap.String("event_id", event.EventID),
		zap.Int64("item_id", event.ItemID),
		zap.String("name", event.ItemName),
		zap.Int64("quantity", event.Quantity),
		zap.Int64("threshold", event.Threshold))
	return nil
}
