package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeSaleCompleted    = "SALE_COMPLETED"
	EventTypeSaleDeleted      = "SALE_DELETED"
	EventTypePurchaseRecorded = "PURCHASE_RECORDED"
	EventTypeStockLow         = "STOCK_LOW"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleCompletedEvent published after a sale commits
type SaleCompletedEvent struct {
	BaseEvent
	SaleID     int64           `json:"sale_id"`
	CustomerID int64           `json:"customer_id"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Lines      []SaleLineData  `json:"lines"`
}

// SaleDeletedEvent published when a sale is removed and its stock restored
type SaleDeletedEvent struct {
	BaseEvent
	SaleID     int64 `json:"sale_id"`
	CustomerID int64 `json:"customer_id"`
}

// PurchaseRecordedEvent published after a purchase commits
type PurchaseRecordedEvent struct {
	BaseEvent
	PurchaseID int64           `json:"purchase_id"`
	ItemID     int64           `json:"item_id"`
	VendorID   int64           `json:"vendor_id"`
	Quantity   int64           `json:"quantity"`
	TotalValue decimal.Decimal `json:"total_value"`
	NewStock   int64           `json:"new_stock"`
}

// StockLowEvent published when a sale leaves an item at or below the threshold
type StockLowEvent struct {
	BaseEvent
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	Quantity  int64  `json:"quantity"`
	Threshold int64  `json:"threshold"`
}

// SaleLineData represents a sale line in events
type SaleLineData struct {
	ItemID   int64           `json:"item_id"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}
