package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const purchaseColumns = `id, slug, item_id, vendor_id, description, quantity, price, total_value,
	delivery_status, order_date, delivery_date`

// PurchaseFilter narrows ListPurchases
type PurchaseFilter struct {
	ItemID         int64
	VendorID       int64
	DeliveryStatus string
	Limit          int
	Offset         int
}

// CreatePurchase records a purchase and adds its quantity to the item's
// stock in one transaction. A zero price is replaced by the item's current
// price when inheritPrice is set. It returns the item's new stock level.
func (s *Store) CreatePurchase(ctx context.Context, p *models.Purchase, inheritPrice bool) (*models.StockLevel, error) {
	var level *models.StockLevel

	err := s.withTx(ctx, "create purchase", func(tx *sqlx.Tx) error {
		if err := requireRow(ctx, tx, "vendors", "vendor", p.VendorID); err != nil {
			return err
		}

		var price decimal.Decimal
		err := tx.GetContext(ctx, &price,
			tx.Rebind("SELECT price FROM items WHERE id = ?"+s.forUpdate()), p.ItemID)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound("item", p.ItemID)
		}
		if err != nil {
			return err
		}
		if inheritPrice {
			p.Price = price
		}

		p.Price = p.Price.Round(2)
		p.TotalValue = p.Price.Mul(decimal.NewFromInt(p.Quantity)).Round(2)
		p.OrderDate = now()
		if p.DeliveryStatus == "" {
			p.DeliveryStatus = models.DeliveryStatusPending
		}

		err = tx.GetContext(ctx, &p.ID, tx.Rebind(`
			INSERT INTO purchases (slug, item_id, vendor_id, description, quantity, price, total_value,
				delivery_status, order_date, delivery_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
			p.Slug, p.ItemID, p.VendorID, p.Description, p.Quantity, p.Price, p.TotalValue,
			p.DeliveryStatus, p.OrderDate, p.DeliveryDate)
		if err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}

		if err := incrementStock(ctx, tx, p.ItemID, p.Quantity); err != nil {
			return err
		}

		levels, err := stockLevels(ctx, tx, []int64{p.ItemID}, "")
		if err != nil {
			return err
		}
		level = &levels[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return level, nil
}

// GetPurchaseByID retrieves a purchase by ID
func (s *Store) GetPurchaseByID(ctx context.Context, id int64) (*models.Purchase, error) {
	var p models.Purchase
	err := s.db.GetContext(ctx, &p,
		s.db.Rebind("SELECT "+purchaseColumns+" FROM purchases WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("purchase", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPurchases retrieves purchases, newest first
func (s *Store) ListPurchases(ctx context.Context, f PurchaseFilter) ([]models.Purchase, error) {
	var conds []string
	var args []interface{}
	if f.ItemID > 0 {
		conds = append(conds, "item_id = ?")
		args = append(args, f.ItemID)
	}
	if f.VendorID > 0 {
		conds = append(conds, "vendor_id = ?")
		args = append(args, f.VendorID)
	}
	if f.DeliveryStatus != "" {
		conds = append(conds, "delivery_status = ?")
		args = append(args, f.DeliveryStatus)
	}
	args = append(args, clampLimit(f.Limit), f.Offset)

	query := "SELECT " + purchaseColumns + " FROM purchases" + whereClause(conds) +
		" ORDER BY order_date DESC, id DESC LIMIT ? OFFSET ?"

	purchases := []models.Purchase{}
	err := s.db.SelectContext(ctx, &purchases, s.db.Rebind(query), args...)
	return purchases, err
}

// UpdatePurchaseDelivery sets the delivery status and date of a purchase
func (s *Store) UpdatePurchaseDelivery(ctx context.Context, id int64, status string, deliveredAt *time.Time) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE purchases SET delivery_status = ?, delivery_date = ? WHERE id = ?"),
		status, deliveredAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("purchase", id)
	}
	return nil
}
