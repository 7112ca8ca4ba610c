package worker

import (
	"context"

	"inventory-service/internal/broker"
	"inventory-service/internal/service"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// SaleEventWorker reacts to inventory events: it awards loyalty points for
// completed sales, takes them back for deleted ones and records low stock
// alerts
type SaleEventWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	logger       *zap.Logger
}

// NewSaleEventWorker creates a new sale event worker
func NewSaleEventWorker(
	consumer *broker.Consumer,
	loyalty *service.LoyaltyService,
	inventory *service.InventoryService,
) *SaleEventWorker {
	return &SaleEventWorker{
		consumer:     consumer,
		eventHandler: NewEventHandler(loyalty, inventory),
		logger:       util.GetLogger(),
	}
}

// NewEventHandler wires the services that consume inventory events
func NewEventHandler(loyalty *service.LoyaltyService, inventory *service.InventoryService) *broker.EventHandler {
	eventHandler := broker.NewEventHandler()
	eventHandler.OnSaleCompleted(loyalty.HandleSaleCompleted)
	eventHandler.OnSaleDeleted(loyalty.HandleSaleDeleted)
	eventHandler.OnStockLow(inventory.HandleStockLow)
	return eventHandler
}

// Start starts the worker
func (w *SaleEventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting sale event worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *SaleEventWorker) Stop() error {
	w.logger.Info("Stopping sale event worker")
	return w.consumer.Close()
}
