package store_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func saleFor(customerID int64, subTotal string) *models.Sale {
	return &models.Sale{
		CustomerID: customerID,
		SubTotal:   dec(subTotal),
		GrandTotal: dec(subTotal),
		AmountPaid: dec(subTotal),
	}
}

func line(itemID int64, price string, qty int64) models.SaleDetail {
	p := dec(price)
	return models.SaleDetail{
		ItemID:      itemID,
		Price:       p,
		Quantity:    qty,
		TotalDetail: p.Mul(decimal.NewFromInt(qty)),
	}
}

func countRows(t *testing.T, s *store.Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.GetDB().Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestCreateSaleDecrementsStock(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 10, "100")
	customer := storetest.SeedCustomer(t, s, "Jane")

	res, err := s.CreateSale(ctx, saleFor(customer.ID, "300"), []models.SaleDetail{line(item.ID, "100", 3)})
	require.NoError(t, err)
	assert.NotZero(t, res.Sale.ID)
	require.Len(t, res.Details, 1)
	assert.True(t, res.Details[0].TotalDetail.Equal(dec("300")))
	require.Len(t, res.Stock, 1)
	assert.Equal(t, int64(7), res.Stock[0].Quantity)
	assert.Equal(t, int64(1), res.Stock[0].Version)

	got, err := s.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.Quantity)

	details, err := s.GetSaleDetails(ctx, res.Sale.ID)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.True(t, details[0].TotalDetail.Equal(dec("300")))
	assert.Equal(t, int64(3), details[0].Quantity)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "B", 2, "10")
	customer := storetest.SeedCustomer(t, s, "Jane")

	for i := 0; i < 2; i++ {
		_, err := s.CreateSale(ctx, saleFor(customer.ID, "50"), []models.SaleDetail{line(item.ID, "10", 5)})
		require.Error(t, err)

		var stockErr *errs.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, item.ID, stockErr.ItemID)
		assert.Equal(t, int64(2), stockErr.Available)
		assert.Equal(t, int64(5), stockErr.Requested)
	}

	got, err := s.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)
	assert.Equal(t, 0, countRows(t, s, "sales"))
	assert.Equal(t, 0, countRows(t, s, "sale_details"))
}

func TestCreateSaleIsAtomic(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	a := storetest.SeedItem(t, s, "A", 10, "5")
	b := storetest.SeedItem(t, s, "B", 1, "5")
	customer := storetest.SeedCustomer(t, s, "Jane")

	_, err := s.CreateSale(ctx, saleFor(customer.ID, "20"), []models.SaleDetail{
		line(a.ID, "5", 2),
		line(b.ID, "5", 2),
	})
	assert.Equal(t, errs.KindInsufficientStock, errs.KindOf(err))

	gotA, err := s.GetItemByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), gotA.Quantity)
	assert.Equal(t, 0, countRows(t, s, "sales"))
	assert.Equal(t, 0, countRows(t, s, "sale_details"))
}

func TestCreateSaleAggregatesRepeatedItem(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 5, "1")
	customer := storetest.SeedCustomer(t, s, "Jane")

	_, err := s.CreateSale(ctx, saleFor(customer.ID, "6"), []models.SaleDetail{
		line(item.ID, "1", 3),
		line(item.ID, "1", 3),
	})
	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(5), stockErr.Available)
	assert.Equal(t, int64(6), stockErr.Requested)
}

func TestCreateSaleRejectsOverflowingQuantities(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 5, "0")
	customer := storetest.SeedCustomer(t, s, "Jane")

	_, err := s.CreateSale(ctx, saleFor(customer.ID, "0"), []models.SaleDetail{
		line(item.ID, "0", math.MaxInt64),
		line(item.ID, "0", math.MaxInt64),
	})
	var malformed *errs.MalformedRequestError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "items[1].quantity", malformed.Field)

	_, err = s.CreateSale(ctx, saleFor(customer.ID, "0"), []models.SaleDetail{line(item.ID, "0", -2)})
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(err))

	got, err := s.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
	assert.Equal(t, 0, countRows(t, s, "sales"))
}

func TestCreateSaleMissingReferences(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 5, "1")
	customer := storetest.SeedCustomer(t, s, "Jane")

	_, err := s.CreateSale(ctx, saleFor(999, "1"), []models.SaleDetail{line(item.ID, "1", 1)})
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "customer", nf.Entity)

	_, err = s.CreateSale(ctx, saleFor(customer.ID, "1"), []models.SaleDetail{line(999, "1", 1)})
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "item", nf.Entity)
	assert.Equal(t, int64(999), nf.ID)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 10, "1")
	customer := storetest.SeedCustomer(t, s, "Jane")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateSale(ctx, saleFor(customer.ID, "3"), []models.SaleDetail{line(item.ID, "1", 3)})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	got, err := s.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Quantity)
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 10, "2")
	customer := storetest.SeedCustomer(t, s, "Jane")

	res, err := s.CreateSale(ctx, saleFor(customer.ID, "8"), []models.SaleDetail{line(item.ID, "2", 4)})
	require.NoError(t, err)

	deleted, err := s.DeleteSale(ctx, res.Sale.ID)
	require.NoError(t, err)
	require.Len(t, deleted.Stock, 1)
	assert.Equal(t, int64(10), deleted.Stock[0].Quantity)

	_, err = s.GetSaleByID(ctx, res.Sale.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	assert.Equal(t, 0, countRows(t, s, "sale_details"))

	_, err = s.DeleteSale(ctx, res.Sale.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestSaleIdempotencyKeyIsUnique(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 10, "1")
	customer := storetest.SeedCustomer(t, s, "Jane")
	key := "key-123"

	sale := saleFor(customer.ID, "1")
	sale.IdempotencyKey = &key
	_, err := s.CreateSale(ctx, sale, []models.SaleDetail{line(item.ID, "1", 1)})
	require.NoError(t, err)

	found, err := s.GetSaleByIdempotencyKey(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sale.ID, found.ID)

	dup := saleFor(customer.ID, "1")
	dup.IdempotencyKey = &key
	_, err = s.CreateSale(ctx, dup, []models.SaleDetail{line(item.ID, "1", 1)})
	assert.Equal(t, errs.KindPersistence, errs.KindOf(err))

	got, err := s.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), got.Quantity)

	missing, err := s.GetSaleByIdempotencyKey(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListSalesFilters(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 10, "1")
	jane := storetest.SeedCustomer(t, s, "Jane")
	john := storetest.SeedCustomer(t, s, "John")

	for _, c := range []int64{jane.ID, jane.ID, john.ID} {
		_, err := s.CreateSale(ctx, saleFor(c, "1"), []models.SaleDetail{line(item.ID, "1", 1)})
		require.NoError(t, err)
	}

	all, err := s.ListSales(ctx, store.SaleFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	janes, err := s.ListSales(ctx, store.SaleFilter{CustomerID: jane.ID})
	require.NoError(t, err)
	assert.Len(t, janes, 2)

	future := time.Now().Add(time.Hour)
	none, err := s.ListSales(ctx, store.SaleFilter{From: &future})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCreatePurchaseIncrementsStock(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "C", 5, "12.50")
	vendor := storetest.SeedVendor(t, s, "Acme")

	p := &models.Purchase{Slug: "p-1", ItemID: item.ID, VendorID: vendor.ID, Quantity: 20}
	level, err := s.CreatePurchase(ctx, p, true)
	require.NoError(t, err)
	assert.Equal(t, int64(25), level.Quantity)
	assert.True(t, p.Price.Equal(dec("12.50")))
	assert.True(t, p.TotalValue.Equal(dec("250")))
	assert.Equal(t, models.DeliveryStatusPending, p.DeliveryStatus)

	stored, err := s.GetPurchaseByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalValue.Equal(dec("250")))

	delivered := time.Now().UTC()
	require.NoError(t, s.UpdatePurchaseDelivery(ctx, p.ID, models.DeliveryStatusSuccessful, &delivered))
	stored, err = s.GetPurchaseByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeliveryStatusSuccessful, stored.DeliveryStatus)
	assert.NotNil(t, stored.DeliveryDate)

	_, err = s.CreatePurchase(ctx, &models.Purchase{Slug: "p-2", ItemID: item.ID, VendorID: 999, Quantity: 1}, true)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestUpdateItemKeepsQuantity(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 10, "1")
	item.Name = "Renamed"
	item.Quantity = 999
	item.Price = dec("2.499")
	require.NoError(t, s.UpdateItem(ctx, item))

	got, err := s.GetItemByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, int64(10), got.Quantity)
	assert.True(t, got.Price.Equal(dec("2.5")))
}

func TestLowStockAndDashboard(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	storetest.SeedItem(t, s, "A", 2, "1")
	storetest.SeedItem(t, s, "B", 50, "1")
	storetest.SeedCustomer(t, s, "Jane")

	low, err := s.ListLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "A", low[0].Name)

	d, err := s.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), d.ItemsCount)
	assert.Equal(t, int64(52), d.TotalUnits)
	assert.Equal(t, int64(1), d.CustomersCount)
}

func TestAwardLoyaltyPointsOncePerEvent(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	customer := storetest.SeedCustomer(t, s, "Jane")

	applied, err := s.AwardLoyaltyPoints(ctx, "evt-1", models.EventTypeSaleCompleted, 7, customer.ID, 3)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = s.AwardLoyaltyPoints(ctx, "evt-1", models.EventTypeSaleCompleted, 7, customer.ID, 3)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.LoyaltyPoints)

	processed, err := s.IsEventProcessed(ctx, "evt-1")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestAwardLoyaltyPointsOncePerSale(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	customer := storetest.SeedCustomer(t, s, "Jane")

	applied, err := s.AwardLoyaltyPoints(ctx, "evt-1", models.EventTypeSaleCompleted, 7, customer.ID, 3)
	require.NoError(t, err)
	assert.True(t, applied)

	// a second event for the same sale is ignored
	applied, err = s.AwardLoyaltyPoints(ctx, "evt-2", models.EventTypeSaleCompleted, 7, customer.ID, 3)
	require.NoError(t, err)
	assert.False(t, applied)

	got, err := s.GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.LoyaltyPoints)
}

func TestReverseLoyaltyPoints(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	customer := storetest.SeedCustomer(t, s, "Jane")
	_, err := s.AwardLoyaltyPoints(ctx, "evt-1", models.EventTypeSaleCompleted, 7, customer.ID, 3)
	require.NoError(t, err)
	_, err = s.AwardLoyaltyPoints(ctx, "evt-2", models.EventTypeSaleCompleted, 8, customer.ID, 2)
	require.NoError(t, err)

	reversed, err := s.ReverseLoyaltyPoints(ctx, "del-1", models.EventTypeSaleDeleted, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), reversed)

	// redelivery of the same event
	reversed, err = s.ReverseLoyaltyPoints(ctx, "del-1", models.EventTypeSaleDeleted, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reversed)

	// a sale that never earned points
	reversed, err = s.ReverseLoyaltyPoints(ctx, "del-2", models.EventTypeSaleDeleted, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reversed)

	got, err := s.GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.LoyaltyPoints)
}

func TestBillsAndDeliveries(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	bill := &models.Bill{InstitutionName: "Power Co", PaymentDetails: "acc 1", Amount: dec("40")}
	require.NoError(t, s.CreateBill(ctx, bill))
	require.NoError(t, s.SetBillPaid(ctx, bill.ID, true))

	paid := true
	bills, err := s.ListBills(ctx, &paid, 0, 0)
	require.NoError(t, err)
	require.Len(t, bills, 1)
	assert.True(t, bills[0].Paid)

	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.SetBillPaid(ctx, 999, true)))

	d := &models.Delivery{CustomerName: "Jane", Location: "Nairobi"}
	require.NoError(t, s.CreateDelivery(ctx, d))
	require.NoError(t, s.MarkDelivered(ctx, d.ID))

	pending := false
	open, err := s.ListDeliveries(ctx, &pending, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, open)

	missing := int64(999)
	err = s.CreateDelivery(ctx, &models.Delivery{ItemID: &missing})
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestUpdateAndDeleteCategory(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 1, "1")
	require.NoError(t, s.UpdateCategory(ctx, &models.Category{ID: item.CategoryID, Name: "Drinks"}))

	got, err := s.GetCategoryByID(ctx, item.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "Drinks", got.Name)

	err = s.DeleteCategory(ctx, item.CategoryID)
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(err))

	empty := &models.Category{Name: "Empty"}
	require.NoError(t, s.CreateCategory(ctx, empty))
	require.NoError(t, s.DeleteCategory(ctx, empty.ID))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.DeleteCategory(ctx, empty.ID)))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.UpdateCategory(ctx, &models.Category{ID: 999, Name: "x"})))
}

func TestDeleteItemRefusesSoldItems(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	customer := storetest.SeedCustomer(t, s, "Jane")
	sold := storetest.SeedItem(t, s, "Sold", 5, "10")
	_, err := s.CreateSale(ctx, saleFor(customer.ID, "10"), []models.SaleDetail{line(sold.ID, "10", 1)})
	require.NoError(t, err)

	err = s.DeleteItem(ctx, sold.ID)
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(err))

	unsold := storetest.SeedItem(t, s, "Unsold", 5, "10")
	vendor := storetest.SeedVendor(t, s, "Acme")
	_, err = s.CreatePurchase(ctx, &models.Purchase{Slug: "p-1", ItemID: unsold.ID, VendorID: vendor.ID, Quantity: 2}, true)
	require.NoError(t, err)
	d := &models.Delivery{ItemID: &unsold.ID, CustomerName: "Jane"}
	require.NoError(t, s.CreateDelivery(ctx, d))

	require.NoError(t, s.DeleteItem(ctx, unsold.ID))

	_, err = s.GetItemByID(ctx, unsold.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	purchases, err := s.ListPurchases(ctx, store.PurchaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, purchases)
	got, err := s.GetDeliveryByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ItemID)
}

func TestUpdateAndDeleteCustomer(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	customer := storetest.SeedCustomer(t, s, "Jane")
	_, err := s.AwardLoyaltyPoints(ctx, "evt-1", models.EventTypeSaleCompleted, 1, customer.ID, 4)
	require.NoError(t, err)

	require.NoError(t, s.UpdateCustomer(ctx, &models.Customer{
		ID: customer.ID, FirstName: "Janet", LastName: "Doe", Email: "janet@example.com",
	}))
	got, err := s.GetCustomerByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janet", got.FirstName)
	assert.Equal(t, "janet@example.com", got.Email)
	assert.Equal(t, int64(4), got.LoyaltyPoints)

	buyer := storetest.SeedCustomer(t, s, "Buyer")
	item := storetest.SeedItem(t, s, "A", 5, "10")
	_, err = s.CreateSale(ctx, saleFor(buyer.ID, "10"), []models.SaleDetail{line(item.ID, "10", 1)})
	require.NoError(t, err)
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(s.DeleteCustomer(ctx, buyer.ID)))

	require.NoError(t, s.DeleteCustomer(ctx, customer.ID))
	_, err = s.GetCustomerByID(ctx, customer.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
}

func TestUpdateAndDeleteVendor(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	vendor := storetest.SeedVendor(t, s, "Acme")
	require.NoError(t, s.UpdateVendor(ctx, &models.Vendor{ID: vendor.ID, Name: "Acme Ltd", Address: "Main St"}))
	got, err := s.GetVendorByID(ctx, vendor.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", got.Name)

	item := storetest.SeedItem(t, s, "A", 5, "10")
	supplier := storetest.SeedVendor(t, s, "Supplier")
	_, err = s.CreatePurchase(ctx, &models.Purchase{Slug: "p-1", ItemID: item.ID, VendorID: supplier.ID, Quantity: 1}, true)
	require.NoError(t, err)
	assert.Equal(t, errs.KindMalformedRequest, errs.KindOf(s.DeleteVendor(ctx, supplier.ID)))

	require.NoError(t, s.DeleteVendor(ctx, vendor.ID))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.DeleteVendor(ctx, vendor.ID)))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.UpdateVendor(ctx, &models.Vendor{ID: vendor.ID, Name: "x"})))
}

func TestDeleteBillingRecords(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	item := storetest.SeedItem(t, s, "A", 5, "10")
	inv := &models.Invoice{
		Slug: "inv-1", CustomerName: "Jane", ContactNumber: "+254700000000", ItemID: item.ID,
		PricePerItem: dec("10"), Quantity: dec("1"), Total: dec("10"), GrandTotal: dec("10"),
	}
	require.NoError(t, s.CreateInvoice(ctx, inv))
	bill := &models.Bill{InstitutionName: "Power Co", PaymentDetails: "acc 1", Amount: dec("40")}
	require.NoError(t, s.CreateBill(ctx, bill))
	d := &models.Delivery{CustomerName: "Jane", Location: "Nairobi"}
	require.NoError(t, s.CreateDelivery(ctx, d))

	got, err := s.GetBillByID(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Power Co", got.InstitutionName)

	require.NoError(t, s.DeleteInvoice(ctx, inv.ID))
	require.NoError(t, s.DeleteBill(ctx, bill.ID))
	require.NoError(t, s.DeleteDelivery(ctx, d.ID))

	_, err = s.GetInvoiceByID(ctx, inv.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	_, err = s.GetBillByID(ctx, bill.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	_, err = s.GetDeliveryByID(ctx, d.ID)
	assert.Equal(t, errs.KindNotFound, errs.KindOf(err))

	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.DeleteInvoice(ctx, inv.ID)))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.DeleteBill(ctx, bill.ID)))
	assert.Equal(t, errs.KindNotFound, errs.KindOf(s.DeleteDelivery(ctx, d.ID)))
}
