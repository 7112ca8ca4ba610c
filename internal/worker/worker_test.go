package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"inventory-service/internal/models"
	"inventory-service/internal/service"
	"inventory-service/internal/store/storetest"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventHandlerAwardsLoyaltyOnce(t *testing.T) {
	st := storetest.New(t)
	handler := NewEventHandler(service.NewLoyaltyService(st, 100), service.NewInventoryService(st, nil, 5))
	ctx := context.Background()

	customer := storetest.SeedCustomer(t, st, "Jane")
	payload, err := json.Marshal(models.SaleCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeSaleCompleted,
			Timestamp: time.Now(),
		},
		SaleID:     1,
		CustomerID: customer.ID,
		GrandTotal: decimal.RequireFromString("250"),
	})
	require.NoError(t, err)

	// redelivery of the same message must not double count
	require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: payload}))
	require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: payload}))

	got, err := st.GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.LoyaltyPoints)
}

func TestEventHandlerReversesLoyaltyOnSaleDeleted(t *testing.T) {
	st := storetest.New(t)
	handler := NewEventHandler(service.NewLoyaltyService(st, 100), service.NewInventoryService(st, nil, 5))
	ctx := context.Background()

	customer := storetest.SeedCustomer(t, st, "Jane")
	completed, err := json.Marshal(models.SaleCompletedEvent{
		BaseEvent:  models.BaseEvent{EventID: uuid.New().String(), EventType: models.EventTypeSaleCompleted},
		SaleID:     1,
		CustomerID: customer.ID,
		GrandTotal: decimal.RequireFromString("250"),
	})
	require.NoError(t, err)
	deleted, err := json.Marshal(models.SaleDeletedEvent{
		BaseEvent:  models.BaseEvent{EventID: uuid.New().String(), EventType: models.EventTypeSaleDeleted},
		SaleID:     1,
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: completed}))
	require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: deleted}))
	require.NoError(t, handler.HandleMessage(ctx, kafka.Message{Value: deleted}))

	got, err := st.GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LoyaltyPoints)
}

func TestEventHandlerStockLow(t *testing.T) {
	st := storetest.New(t)
	handler := NewEventHandler(service.NewLoyaltyService(st, 100), service.NewInventoryService(st, nil, 5))

	payload, err := json.Marshal(models.StockLowEvent{
		BaseEvent: models.BaseEvent{EventID: "low-1", EventType: models.EventTypeStockLow},
		ItemID:    1,
		Quantity:  2,
		Threshold: 5,
	})
	require.NoError(t, err)
	assert.NoError(t, handler.HandleMessage(context.Background(), kafka.Message{Value: payload}))
}
