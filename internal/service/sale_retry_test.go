package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first failures CreateSale calls with err
type flakyStore struct {
	*store.Store
	failures int
	err      error
	calls    int
}

func (f *flakyStore) CreateSale(ctx context.Context, sale *models.Sale, details []models.SaleDetail) (*store.SaleResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.Store.CreateSale(ctx, sale, details)
}

func serializationFailure() error {
	return &errs.PersistenceError{Op: "create sale", Err: errors.New("could not serialize access"), Retryable: true}
}

func newFlakySaleService(t *testing.T, fs *flakyStore, attempts int) *SaleService {
	t.Helper()
	return NewSaleService(fs, nil, nil, nil, SaleOptions{
		TxTimeout:   5 * time.Second,
		MaxAttempts: attempts,
	})
}

func TestCreateSaleRetriesRetryableFailure(t *testing.T) {
	st := storetest.New(t)
	ctx := context.Background()
	item := storetest.SeedItem(t, st, "A", 10, "1")
	customer := storetest.SeedCustomer(t, st, "Jane")

	fs := &flakyStore{Store: st, failures: 2, err: serializationFailure()}
	svc := newFlakySaleService(t, fs, 3)

	resp, err := svc.CreateSale(ctx, singleLineSale(customer.ID, item.ID, "1", 2, "2"))
	require.NoError(t, err)
	assert.NotZero(t, resp.SaleID)
	assert.Equal(t, 3, fs.calls)

	got, err := st.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Quantity)
}

func TestCreateSaleGivesUpAfterMaxAttempts(t *testing.T) {
	st := storetest.New(t)
	item := storetest.SeedItem(t, st, "A", 10, "1")
	customer := storetest.SeedCustomer(t, st, "Jane")

	fs := &flakyStore{Store: st, failures: 5, err: serializationFailure()}
	svc := newFlakySaleService(t, fs, 3)

	_, err := svc.CreateSale(context.Background(), singleLineSale(customer.ID, item.ID, "1", 2, "2"))
	assert.Equal(t, errs.KindPersistence, errs.KindOf(err))
	assert.True(t, errs.IsRetryable(err))
	assert.Equal(t, 3, fs.calls)
}

func TestCreateSaleDoesNotRetryPermanentFailure(t *testing.T) {
	st := storetest.New(t)
	item := storetest.SeedItem(t, st, "A", 10, "1")
	customer := storetest.SeedCustomer(t, st, "Jane")

	permanent := &errs.PersistenceError{Op: "create sale", Err: errors.New("disk full")}
	fs := &flakyStore{Store: st, failures: 1, err: permanent}
	svc := newFlakySaleService(t, fs, 3)

	_, err := svc.CreateSale(context.Background(), singleLineSale(customer.ID, item.ID, "1", 2, "2"))
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, fs.calls)
}
