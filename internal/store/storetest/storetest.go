// Package storetest opens migrated throwaway databases for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"inventory-service/internal/models"
	"inventory-service/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// New returns a store backed by a fresh SQLite file in t's temp dir
func New(t testing.TB) *store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "inventory.db") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	s, err := store.NewStore(store.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

// SeedItem creates a category and an item with the given stock and price
func SeedItem(t testing.TB, s *store.Store, name string, quantity int64, price string) *models.Item {
	t.Helper()
	ctx := context.Background()

	category := &models.Category{Name: "cat-" + name}
	require.NoError(t, s.CreateCategory(ctx, category))

	item := &models.Item{
		Name:       name,
		CategoryID: category.ID,
		Quantity:   quantity,
		Price:      decimal.RequireFromString(price),
	}
	require.NoError(t, s.CreateItem(ctx, item))
	return item
}

// SeedCustomer creates a customer
func SeedCustomer(t testing.TB, s *store.Store, firstName string) *models.Customer {
	t.Helper()

	c := &models.Customer{FirstName: firstName, LastName: "Test"}
	require.NoError(t, s.CreateCustomer(context.Background(), c))
	return c
}

// SeedVendor creates a vendor
func SeedVendor(t testing.TB, s *store.Store, name string) *models.Vendor {
	t.Helper()

	v := &models.Vendor{Name: name}
	require.NoError(t, s.CreateVendor(context.Background(), v))
	return v
}
