package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups catalog items
type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Item represents a stocked product
type Item struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	CategoryID  int64           `db:"category_id" json:"category_id"`
	VendorID    *int64          `db:"vendor_id" json:"vendor_id,omitempty"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Version     int64           `db:"version" json:"version"`
	ExpiresAt   *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// StockLevel is the current quantity of an item with its change counter
type StockLevel struct {
	ItemID   int64  `db:"id" json:"item_id"`
	Name     string `db:"name" json:"name"`
	Quantity int64  `db:"quantity" json:"quantity"`
	Version  int64  `db:"version" json:"version"`
}

// Customer buys items through sales
type Customer struct {
	ID            int64     `db:"id" json:"id"`
	FirstName     string    `db:"first_name" json:"first_name"`
	LastName      string    `db:"last_name" json:"last_name"`
	Address       string    `db:"address" json:"address"`
	Email         string    `db:"email" json:"email"`
	Phone         string    `db:"phone" json:"phone"`
	LoyaltyPoints int64     `db:"loyalty_points" json:"loyalty_points"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// FullName joins first and last name
func (c Customer) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Vendor supplies items through purchases
type Vendor struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Sale is the header of a point-of-sale transaction
type Sale struct {
	ID             int64           `db:"id" json:"id"`
	CustomerID     int64           `db:"customer_id" json:"customer_id"`
	SubTotal       decimal.Decimal `db:"sub_total" json:"sub_total"`
	GrandTotal     decimal.Decimal `db:"grand_total" json:"grand_total"`
	TaxAmount      decimal.Decimal `db:"tax_amount" json:"tax_amount"`
	TaxPercentage  float64         `db:"tax_percentage" json:"tax_percentage"`
	AmountPaid     decimal.Decimal `db:"amount_paid" json:"amount_paid"`
	AmountChange   decimal.Decimal `db:"amount_change" json:"amount_change"`
	IdempotencyKey *string         `db:"idempotency_key" json:"idempotency_key,omitempty"`
	DateAdded      time.Time       `db:"date_added" json:"date_added"`
}

// SaleDetail is one line of a sale. Price is the price charged, not the
// item's current catalog price.
type SaleDetail struct {
	ID          int64           `db:"id" json:"id"`
	SaleID      int64           `db:"sale_id" json:"sale_id"`
	ItemID      int64           `db:"item_id" json:"item_id"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	TotalDetail decimal.Decimal `db:"total_detail" json:"total_detail"`
}

// Purchase records stock bought from a vendor
type Purchase struct {
	ID             int64           `db:"id" json:"id"`
	Slug           string          `db:"slug" json:"slug"`
	ItemID         int64           `db:"item_id" json:"item_id"`
	VendorID       int64           `db:"vendor_id" json:"vendor_id"`
	Description    string          `db:"description" json:"description"`
	Quantity       int64           `db:"quantity" json:"quantity"`
	Price          decimal.Decimal `db:"price" json:"price"`
	TotalValue     decimal.Decimal `db:"total_value" json:"total_value"`
	DeliveryStatus string          `db:"delivery_status" json:"delivery_status"`
	OrderDate      time.Time       `db:"order_date" json:"order_date"`
	DeliveryDate   *time.Time      `db:"delivery_date" json:"delivery_date,omitempty"`
}

// Invoice bills a customer for a single item plus shipping
type Invoice struct {
	ID            int64           `db:"id" json:"id"`
	Slug          string          `db:"slug" json:"slug"`
	CustomerName  string          `db:"customer_name" json:"customer_name"`
	ContactNumber string          `db:"contact_number" json:"contact_number"`
	ItemID        int64           `db:"item_id" json:"item_id"`
	PricePerItem  decimal.Decimal `db:"price_per_item" json:"price_per_item"`
	Quantity      decimal.Decimal `db:"quantity" json:"quantity"`
	Shipping      decimal.Decimal `db:"shipping" json:"shipping"`
	Total         decimal.Decimal `db:"total" json:"total"`
	GrandTotal    decimal.Decimal `db:"grand_total" json:"grand_total"`
	Date          time.Time       `db:"date" json:"date"`
}

// Bill is an amount owed to an institution
type Bill struct {
	ID              int64           `db:"id" json:"id"`
	InstitutionName string          `db:"institution_name" json:"institution_name"`
	PhoneNumber     string          `db:"phone_number" json:"phone_number"`
	Email           string          `db:"email" json:"email"`
	Address         string          `db:"address" json:"address"`
	Description     string          `db:"description" json:"description"`
	PaymentDetails  string          `db:"payment_details" json:"payment_details"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Paid            bool            `db:"paid" json:"paid"`
	Date            time.Time       `db:"date" json:"date"`
}

// Delivery tracks an item shipped to a customer
type Delivery struct {
	ID           int64     `db:"id" json:"id"`
	ItemID       *int64    `db:"item_id" json:"item_id,omitempty"`
	CustomerName string    `db:"customer_name" json:"customer_name"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Location     string    `db:"location" json:"location"`
	Date         time.Time `db:"date" json:"date"`
	IsDelivered  bool      `db:"is_delivered" json:"is_delivered"`
}

// Purchase delivery statuses
const (
	DeliveryStatusPending    = "P"
	DeliveryStatusSuccessful = "S"
)

// ValidDeliveryStatus reports whether s is a known purchase delivery status
func ValidDeliveryStatus(s string) bool {
	return s == DeliveryStatusPending || s == DeliveryStatusSuccessful
}

// Dashboard aggregates the store's headline counts
type Dashboard struct {
	ItemsCount     int64 `db:"items_count" json:"items_count"`
	TotalUnits     int64 `db:"total_units" json:"total_units"`
	CustomersCount int64 `db:"customers_count" json:"customers_count"`
	VendorsCount   int64 `db:"vendors_count" json:"vendors_count"`
	SalesCount     int64 `db:"sales_count" json:"sales_count"`
	DeliveryCount  int64 `db:"delivery_count" json:"delivery_count"`
}

// ComputeTotals derives Total and GrandTotal from price, quantity and shipping
func (inv *Invoice) ComputeTotals() {
	inv.Total = inv.Quantity.Mul(inv.PricePerItem).Round(2)
	inv.GrandTotal = inv.Total.Add(inv.Shipping).Round(2)
}
