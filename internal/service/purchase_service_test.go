package service

import (
	"context"
	"testing"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordPurchaseIncrementsStock(t *testing.T) {
	st := storetest.New(t)
	cache := newFakeCache()
	pub := &fakePublisher{}
	svc := NewPurchaseService(st, cache, pub)
	ctx := context.Background()

	item := storetest.SeedItem(t, st, "C", 5, "3.20")
	vendor := storetest.SeedVendor(t, st, "Acme")

	resp, err := svc.RecordPurchase(ctx, &RecordPurchaseRequest{
		ItemID:   item.ID,
		VendorID: vendor.ID,
		Quantity: 20,
		Price:    amount("2.75"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25), resp.Stock.Quantity)
	assert.Equal(t, "55.00", resp.Purchase.TotalValue.StringFixed(2))
	assert.Equal(t, models.DeliveryStatusPending, resp.Purchase.DeliveryStatus)
	assert.NotEmpty(t, resp.Purchase.Slug)

	cached, err := cache.GetStock(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, int64(25), cached.Quantity)

	require.Len(t, pub.purchases, 1)
	assert.Equal(t, int64(25), pub.purchases[0].NewStock)
}

func TestRecordPurchaseDefaultsToItemPrice(t *testing.T) {
	st := storetest.New(t)
	svc := NewPurchaseService(st, nil, nil)
	ctx := context.Background()

	item := storetest.SeedItem(t, st, "C", 0, "3.20")
	vendor := storetest.SeedVendor(t, st, "Acme")

	resp, err := svc.RecordPurchase(ctx, &RecordPurchaseRequest{
		ItemID:         item.ID,
		VendorID:       vendor.ID,
		Quantity:       10,
		DeliveryStatus: models.DeliveryStatusSuccessful,
	})
	require.NoError(t, err)
	assert.Equal(t, "3.20", resp.Purchase.Price.StringFixed(2))
	assert.Equal(t, "32.00", resp.Purchase.TotalValue.StringFixed(2))
	assert.NotNil(t, resp.Purchase.DeliveryDate)
}

func TestRecordPurchaseRejectsBadInput(t *testing.T) {
	st := storetest.New(t)
	svc := NewPurchaseService(st, nil, nil)
	ctx := context.Background()

	item := storetest.SeedItem(t, st, "C", 0, "1")
	vendor := storetest.SeedVendor(t, st, "Acme")

	_, err := svc.RecordPurchase(ctx, &RecordPurchaseRequest{ItemID: item.ID, VendorID: vendor.ID, Quantity: 0})
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(err))

	_, err = svc.RecordPurchase(ctx, &RecordPurchaseRequest{
		ItemID: item.ID, VendorID: vendor.ID, Quantity: 1, DeliveryStatus: "X",
	})
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(err))

	_, err = svc.RecordPurchase(ctx, &RecordPurchaseRequest{ItemID: 999, VendorID: vendor.ID, Quantity: 1})
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	purchases, err := svc.ListPurchases(ctx, store.PurchaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, purchases)
}

func TestUpdateDeliveryStatus(t *testing.T) {
	st := storetest.New(t)
	svc := NewPurchaseService(st, nil, nil)
	ctx := context.Background()

	item := storetest.SeedItem(t, st, "C", 0, "1")
	vendor := storetest.SeedVendor(t, st, "Acme")

	resp, err := svc.RecordPurchase(ctx, &RecordPurchaseRequest{ItemID: item.ID, VendorID: vendor.ID, Quantity: 1})
	require.NoError(t, err)

	p, err := svc.UpdateDeliveryStatus(ctx, resp.Purchase.ID, models.DeliveryStatusSuccessful)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusSuccessful, p.DeliveryStatus)
	assert.NotNil(t, p.DeliveryDate)

	_, err = svc.UpdateDeliveryStatus(ctx, resp.Purchase.ID, "Z")
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(err))

	_, err = svc.UpdateDeliveryStatus(ctx, 999, models.DeliveryStatusPending)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}
