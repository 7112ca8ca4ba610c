package service

import (
	"context"
	"strings"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
	"inventory-service/internal/store"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BillingService manages invoices, bills and deliveries
type BillingService struct {
	store       *store.Store
	phoneRegion string
	logger      *zap.Logger
}

// NewBillingService creates a new billing service
func NewBillingService(store *store.Store, phoneRegion string) *BillingService {
	return &BillingService{
		store:       store,
		phoneRegion: phoneRegion,
		logger:      util.GetLogger(),
	}
}

// InvoiceRequest represents an invoice to create
type InvoiceRequest struct {
	CustomerName  string           `json:"customer_name" validate:"required,max=30"`
	ContactNumber string           `json:"contact_number" validate:"required,max=30"`
	ItemID        int64            `json:"item_id" validate:"required,gt=0"`
	PricePerItem  *decimal.Decimal `json:"price_per_item"`
	Quantity      *decimal.Decimal `json:"quantity"`
	Shipping      *decimal.Decimal `json:"shipping"`
}

// BillRequest represents a bill to create
type BillRequest struct {
	InstitutionName string           `json:"institution_name" validate:"required,max=30"`
	PhoneNumber     string           `json:"phone_number" validate:"max=30"`
	Email           string           `json:"email" validate:"omitempty,email,max=256"`
	Address         string           `json:"address" validate:"max=255"`
	Description     string           `json:"description" validate:"max=255"`
	PaymentDetails  string           `json:"payment_details" validate:"required,max=255"`
	Amount          *decimal.Decimal `json:"amount"`
	Paid            bool             `json:"paid"`
}

// DeliveryRequest represents a delivery to create
type DeliveryRequest struct {
	ItemID       *int64 `json:"item_id" validate:"omitempty,gt=0"`
	CustomerName string `json:"customer_name" validate:"required,max=30"`
	PhoneNumber  string `json:"phone_number" validate:"max=30"`
	Location     string `json:"location" validate:"max=20"`
	IsDelivered  bool   `json:"is_delivered"`
}

// CreateInvoice creates an invoice with derived totals
func (s *BillingService) CreateInvoice(ctx context.Context, req *InvoiceRequest) (*models.Invoice, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := requireAmount("price_per_item", req.PricePerItem); err != nil {
		return nil, err
	}
	if err := requireAmount("quantity", req.Quantity); err != nil {
		return nil, err
	}
	shipping, err := optionalAmount("shipping", req.Shipping)
	if err != nil {
		return nil, err
	}
	contact, err := normalizePhone("contact_number", req.ContactNumber, s.phoneRegion)
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		Slug:          uuid.New().String(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		ContactNumber: contact,
		ItemID:        req.ItemID,
		PricePerItem:  req.PricePerItem.Round(2),
		Quantity:      req.Quantity.Round(2),
		Shipping:      shipping.Round(2),
	}
	inv.ComputeTotals()

	if err := s.store.CreateInvoice(ctx, inv); err != nil {
		return nil, errs.Persistence("create invoice", err)
	}
	s.logger.Info("Invoice created",
		zap.Int64("invoice_id", inv.ID),
		zap.String("grand_total", inv.GrandTotal.StringFixed(2)))
	return inv, nil
}

// GetInvoice retrieves an invoice by ID
func (s *BillingService) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	inv, err := s.store.GetInvoiceByID(ctx, id)
	return inv, errs.Persistence("get invoice", err)
}

// ListInvoices lists invoices
func (s *BillingService) ListInvoices(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	invoices, err := s.store.ListInvoices(ctx, limit, offset)
	return invoices, errs.Persistence("list invoices", err)
}

// DeleteInvoice removes an invoice
func (s *BillingService) DeleteInvoice(ctx context.Context, id int64) error {
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		return errs.Persistence("delete invoice", err)
	}
	return nil
}

// CreateBill creates a bill
func (s *BillingService) CreateBill(ctx context.Context, req *BillRequest) (*models.Bill, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := requireAmount("amount", req.Amount); err != nil {
		return nil, err
	}
	phone, err := normalizePhone("phone_number", req.PhoneNumber, s.phoneRegion)
	if err != nil {
		return nil, err
	}

	b := &models.Bill{
		InstitutionName: strings.TrimSpace(req.InstitutionName),
		PhoneNumber:     phone,
		Email:           req.Email,
		Address:         req.Address,
		Description:     req.Description,
		PaymentDetails:  req.PaymentDetails,
		Amount:          req.Amount.Round(2),
		Paid:            req.Paid,
	}
	if err := s.store.CreateBill(ctx, b); err != nil {
		return nil, errs.Persistence("create bill", err)
	}
	return b, nil
}

// ListBills lists bills, optionally filtered by paid status
func (s *BillingService) ListBills(ctx context.Context, paid *bool, limit, offset int) ([]models.Bill, error) {
	bills, err := s.store.ListBills(ctx, paid, limit, offset)
	return bills, errs.Persistence("list bills", err)
}

// GetBill retrieves a bill by ID
func (s *BillingService) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	b, err := s.store.GetBillByID(ctx, id)
	return b, errs.Persistence("get bill", err)
}

// DeleteBill removes a bill
func (s *BillingService) DeleteBill(ctx context.Context, id int64) error {
	if err := s.store.DeleteBill(ctx, id); err != nil {
		return errs.Persistence("delete bill", err)
	}
	return nil
}

// SetBillPaid marks a bill paid or unpaid
func (s *BillingService) SetBillPaid(ctx context.Context, id int64, paid bool) error {
	if err := s.store.SetBillPaid(ctx, id, paid); err != nil {
		return errs.Persistence("set bill paid", err)
	}
	s.logger.Info("Bill payment status changed", zap.Int64("bill_id", id), zap.Bool("paid", paid))
	return nil
}

// CreateDelivery creates a delivery
func (s *BillingService) CreateDelivery(ctx context.Context, req *DeliveryRequest) (*models.Delivery, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	phone, err := normalizePhone("phone_number", req.PhoneNumber, s.phoneRegion)
	if err != nil {
		return nil, err
	}

	d := &models.Delivery{
		ItemID:       req.ItemID,
		CustomerName: strings.TrimSpace(req.CustomerName),
		PhoneNumber:  phone,
		Location:     req.Location,
		IsDelivered:  req.IsDelivered,
	}
	if err := s.store.CreateDelivery(ctx, d); err != nil {
		return nil, errs.Persistence("create delivery", err)
	}
	return d, nil
}

// GetDelivery retrieves a delivery by ID
func (s *BillingService) GetDelivery(ctx context.Context, id int64) (*models.Delivery, error) {
	d, err := s.store.GetDeliveryByID(ctx, id)
	return d, errs.Persistence("get delivery", err)
}

// DeleteDelivery removes a delivery
func (s *BillingService) DeleteDelivery(ctx context.Context, id int64) error {
	if err := s.store.DeleteDelivery(ctx, id); err != nil {
		return errs.Persistence("delete delivery", err)
	}
	return nil
}

// ListDeliveries lists deliveries, optionally filtered by delivered flag
func (s *BillingService) ListDeliveries(ctx context.Context, delivered *bool, limit, offset int) ([]models.Delivery, error) {
	deliveries, err := s.store.ListDeliveries(ctx, delivered, limit, offset)
	return deliveries, errs.Persistence("list deliveries", err)
}

// MarkDelivered flags a delivery as delivered
func (s *BillingService) MarkDelivered(ctx context.Context, id int64) error {
	if err := s.store.MarkDelivered(ctx, id); err != nil {
		return errs.Persistence("mark delivered", err)
	}
	s.logger.Info("Delivery completed", zap.Int64("delivery_id", id))
	return nil
}
