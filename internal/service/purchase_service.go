package service

import (
	"context"
	"time"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseService records stock bought from vendors
type PurchaseService struct {
	store     *store.Store
	cache     StockCache
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(store *store.Store, cache StockCache, publisher EventPublisher) *PurchaseService {
	return &PurchaseService{
		store:     store,
		cache:     cache,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// RecordPurchaseRequest represents a request to record a purchase
type RecordPurchaseRequest struct {
	ItemID         int64            `json:"item_id" validate:"required,gt=0"`
	VendorID       int64            `json:"vendor_id" validate:"required,gt=0"`
	Description    string           `json:"description" validate:"max=300"`
	Quantity       int64            `json:"quantity" validate:"required,gt=0"`
	Price          *decimal.Decimal `json:"price"`
	DeliveryStatus string           `json:"delivery_status" validate:"omitempty,oneof=P S"`
}

// RecordPurchaseResponse carries the stored purchase and the item's new stock
type RecordPurchaseResponse struct {
	Purchase models.Purchase   `json:"purchase"`
	Stock    models.StockLevel `json:"stock"`
}

// RecordPurchase inserts a purchase and increments the item's stock in one
// transaction. A missing price defaults to the item's price.
func (s *PurchaseService) RecordPurchase(ctx context.Context, req *RecordPurchaseRequest) (*RecordPurchaseResponse, error) {
	ctx, span := util.StartSpan(ctx, "PurchaseService.RecordPurchase")
	defer span.End()

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	price, err := optionalAmount("price", req.Price)
	if err != nil {
		return nil, err
	}

	p := &models.Purchase{
		Slug:           uuid.New().String(),
		ItemID:         req.ItemID,
		VendorID:       req.VendorID,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Price:          price,
		DeliveryStatus: req.DeliveryStatus,
	}
	if p.DeliveryStatus == models.DeliveryStatusSuccessful {
		delivered := time.Now().UTC()
		p.DeliveryDate = &delivered
	}

	level, err := s.store.CreatePurchase(context.WithoutCancel(ctx), p, req.Price == nil)
	if err != nil {
		return nil, err
	}

	util.PurchasesRecordedTotal.Inc()
	s.logger.Info("Purchase recorded",
		zap.Int64("purchase_id", p.ID),
		zap.Int64("item_id", p.ItemID),
		zap.Int64("quantity", p.Quantity),
		zap.Int64("new_stock", level.Quantity))

	bg := context.WithoutCancel(ctx)
	refreshStock(bg, s.cache, s.logger, []models.StockLevel{*level})
	if s.publisher != nil {
		event := &models.PurchaseRecordedEvent{
			BaseEvent:  newBaseEvent(models.EventTypePurchaseRecorded),
			PurchaseID: p.ID,
			ItemID:     p.ItemID,
			VendorID:   p.VendorID,
			Quantity:   p.Quantity,
			TotalValue: p.TotalValue,
			NewStock:   level.Quantity,
		}
		if err := s.publisher.PublishPurchaseRecorded(bg, event); err != nil {
			s.logger.Error("Failed to publish PurchaseRecorded event", zap.Error(err))
		}
	}

	return &RecordPurchaseResponse{Purchase: *p, Stock: *level}, nil
}

// GetPurchase retrieves a purchase by ID
func (s *PurchaseService) GetPurchase(ctx context.Context, id int64) (*models.Purchase, error) {
	p, err := s.store.GetPurchaseByID(ctx, id)
	return p, errs.Persistence("get purchase", err)
}

// ListPurchases retrieves purchases matching the filter
func (s *PurchaseService) ListPurchases(ctx context.Context, f store.PurchaseFilter) ([]models.Purchase, error) {
	purchases, err := s.store.ListPurchases(ctx, f)
	return purchases, errs.Persistence("list purchases", err)
}

// UpdateDeliveryStatus sets a purchase's delivery status. Marking it
// successful stamps the delivery date.
func (s *PurchaseService) UpdateDeliveryStatus(ctx context.Context, id int64, status string) (*models.Purchase, error) {
	if !models.ValidDeliveryStatus(status) {
		return nil, errs.Malformed("delivery_status", "must be one of P S")
	}

	var deliveredAt *time.Time
	if status == models.DeliveryStatusSuccessful {
		ts := time.Now().UTC()
		deliveredAt = &ts
	}
	if err := s.store.UpdatePurchaseDelivery(ctx, id, status, deliveredAt); err != nil {
		return nil, errs.Persistence("update purchase delivery", err)
	}
	return s.GetPurchase(ctx, id)
}
