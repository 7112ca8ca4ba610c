package service

import (
	"context"
	"fmt"

	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LoyaltyService awards customers points for completed sales and takes them
// back when a sale is deleted
type LoyaltyService struct {
	store      *store.Store
	pointValue decimal.Decimal
	logger     *zap.Logger
}

// NewLoyaltyService creates a new loyalty service. One point is earned per
// pointValue of grand total.
func NewLoyaltyService(store *store.Store, pointValue int64) *LoyaltyService {
	if pointValue <= 0 {
		pointValue = 100
	}
	return &LoyaltyService{
		store:      store,
		pointValue: decimal.NewFromInt(pointValue),
		logger:     util.GetLogger(),
	}
}

// PointsFor returns the points earned by a sale's grand total
func (ls *LoyaltyService) PointsFor(grandTotal decimal.Decimal) int64 {
	if grandTotal.IsNegative() {
		return 0
	}
	return grandTotal.Div(ls.pointValue).Floor().IntPart()
}

// HandleSaleCompleted awards points once per event
func (ls *LoyaltyService) HandleSaleCompleted(ctx context.Context, event *models.SaleCompletedEvent) error {
	ctx, span := util.StartSpan(ctx, "LoyaltyService.HandleSaleCompleted")
	defer span.End()

	processed, err := ls.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		ls.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	points := ls.PointsFor(event.GrandTotal)
	applied, err := ls.store.AwardLoyaltyPoints(ctx, event.EventID, event.EventType, event.SaleID, event.CustomerID, points)
	if err != nil {
		return fmt.Errorf("failed to award loyalty points: %w", err)
	}
	if !applied {
		return nil
	}

	util.LoyaltyPointsAwardedTotal.Add(float64(points))
	ls.logger.Info("Loyalty points awarded",
		zap.Int64("sale_id", event.SaleID),
		zap.Int64("customer_id", event.CustomerID),
		zap.Int64("points", points))
	return nil
}

// HandleSaleDeleted reverses the points a deleted sale earned, once per event
func (ls *LoyaltyService) HandleSaleDeleted(ctx context.Context, event *models.SaleDeletedEvent) error {
	ctx, span := util.StartSpan(ctx, "LoyaltyService.HandleSaleDeleted")
	defer span.End()

	points, err := ls.store.ReverseLoyaltyPoints(ctx, event.EventID, event.EventType, event.SaleID)
	if err != nil {
		return fmt.Errorf("failed to reverse loyalty points: %w", err)
	}
	if points == 0 {
		return nil
	}

	util.LoyaltyPointsReversedTotal.Add(float64(points))
	ls.logger.Info("Loyalty points reversed",
		zap.Int64("sale_id", event.SaleID),
		zap.Int64("customer_id", event.CustomerID),
		zap.Int64("points", points))
	return nil
}
