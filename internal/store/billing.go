package store

import (
	"context"
	"database/sql"
	"errors"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"
)

const (
	invoiceColumns = `id, slug, customer_name, contact_number, item_id, price_per_item, quantity,
	shipping, total, grand_total, date`
	billColumns = `id, institution_name, phone_number, email, address, description, payment_details,
	amount, paid, date`
	deliveryColumns = "id, item_id, customer_name, phone_number, location, date, is_delivered"
)

// CreateInvoice stores an invoice. Totals must already be computed.
func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if err := s.requireItem(ctx, inv.ItemID); err != nil {
		return err
	}
	inv.Date = now()
	query := s.db.Rebind(`
		INSERT INTO invoices (slug, customer_name, contact_number, item_id, price_per_item, quantity,
			shipping, total, grand_total, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	return s.db.GetContext(ctx, &inv.ID, query,
		inv.Slug, inv.CustomerName, inv.ContactNumber, inv.ItemID, inv.PricePerItem, inv.Quantity,
		inv.Shipping, inv.Total, inv.GrandTotal, inv.Date)
}

// GetInvoiceByID retrieves an invoice by ID
func (s *Store) GetInvoiceByID(ctx context.Context, id int64) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.GetContext(ctx, &inv,
		s.db.Rebind("SELECT "+invoiceColumns+" FROM invoices WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("invoice", id)
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices retrieves invoices, newest first
func (s *Store) ListInvoices(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	invoices := []models.Invoice{}
	err := s.db.SelectContext(ctx, &invoices,
		s.db.Rebind("SELECT "+invoiceColumns+" FROM invoices ORDER BY date DESC, id DESC LIMIT ? OFFSET ?"),
		clampLimit(limit), offset)
	return invoices, err
}

// DeleteInvoice removes an invoice
func (s *Store) DeleteInvoice(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "invoices", "invoice", id)
}

// CreateBill stores a bill
func (s *Store) CreateBill(ctx context.Context, b *models.Bill) error {
	b.Date = now()
	query := s.db.Rebind(`
		INSERT INTO bills (institution_name, phone_number, email, address, description, payment_details,
			amount, paid, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	return s.db.GetContext(ctx, &b.ID, query,
		b.InstitutionName, b.PhoneNumber, b.Email, b.Address, b.Description, b.PaymentDetails,
		b.Amount, b.Paid, b.Date)
}

// GetBillByID retrieves a bill by ID
func (s *Store) GetBillByID(ctx context.Context, id int64) (*models.Bill, error) {
	var b models.Bill
	err := s.db.GetContext(ctx, &b,
		s.db.Rebind("SELECT "+billColumns+" FROM bills WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("bill", id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBills retrieves bills, optionally filtered by paid status
func (s *Store) ListBills(ctx context.Context, paid *bool, limit, offset int) ([]models.Bill, error) {
	var conds []string
	var args []interface{}
	if paid != nil {
		conds = append(conds, "paid = ?")
		args = append(args, *paid)
	}
	args = append(args, clampLimit(limit), offset)

	bills := []models.Bill{}
	query := "SELECT " + billColumns + " FROM bills" + whereClause(conds) +
		" ORDER BY date DESC, id DESC LIMIT ? OFFSET ?"
	err := s.db.SelectContext(ctx, &bills, s.db.Rebind(query), args...)
	return bills, err
}

// SetBillPaid updates the paid flag of a bill
func (s *Store) SetBillPaid(ctx context.Context, id int64, paid bool) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind("UPDATE bills SET paid = ? WHERE id = ?"), paid, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("bill", id)
	}
	return nil
}

// DeleteBill removes a bill
func (s *Store) DeleteBill(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "bills", "bill", id)
}

// CreateDelivery stores a delivery
func (s *Store) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	if d.ItemID != nil {
		if err := s.requireItem(ctx, *d.ItemID); err != nil {
			return err
		}
	}
	d.Date = now()
	query := s.db.Rebind(`
		INSERT INTO deliveries (item_id, customer_name, phone_number, location, date, is_delivered)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	return s.db.GetContext(ctx, &d.ID, query,
		d.ItemID, d.CustomerName, d.PhoneNumber, d.Location, d.Date, d.IsDelivered)
}

// GetDeliveryByID retrieves a delivery by ID
func (s *Store) GetDeliveryByID(ctx context.Context, id int64) (*models.Delivery, error) {
	var d models.Delivery
	err := s.db.GetContext(ctx, &d,
		s.db.Rebind("SELECT "+deliveryColumns+" FROM deliveries WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("delivery", id)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDeliveries retrieves deliveries, optionally filtered by delivered flag
func (s *Store) ListDeliveries(ctx context.Context, delivered *bool, limit, offset int) ([]models.Delivery, error) {
	var conds []string
	var args []interface{}
	if delivered != nil {
		conds = append(conds, "is_delivered = ?")
		args = append(args, *delivered)
	}
	args = append(args, clampLimit(limit), offset)

	deliveries := []models.Delivery{}
	query := "SELECT " + deliveryColumns + " FROM deliveries" + whereClause(conds) +
		" ORDER BY date DESC, id DESC LIMIT ? OFFSET ?"
	err := s.db.SelectContext(ctx, &deliveries, s.db.Rebind(query), args...)
	return deliveries, err
}

// MarkDelivered flags a delivery as delivered
func (s *Store) MarkDelivered(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE deliveries SET is_delivered = ? WHERE id = ?"), true, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("delivery", id)
	}
	return nil
}

// DeleteDelivery removes a delivery
func (s *Store) DeleteDelivery(ctx context.Context, id int64) error {
	return deleteByID(ctx, s.db, "deliveries", "delivery", id)
}

func (s *Store) requireItem(ctx context.Context, id int64) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		s.db.Rebind("SELECT EXISTS(SELECT 1 FROM items WHERE id = ?)"), id)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NotFound("item", id)
	}
	return nil
}
