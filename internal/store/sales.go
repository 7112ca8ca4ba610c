package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
)

const saleColumns = `id, customer_id, sub_total, grand_total, tax_amount, tax_percentage,
	amount_paid, amount_change, idempotency_key, date_added`

// SaleResult is a committed sale with the stock left on every item it touched
type SaleResult struct {
	Sale    models.Sale
	Details []models.SaleDetail
	Stock   []models.StockLevel
}

// SaleFilter narrows ListSales
type SaleFilter struct {
	CustomerID int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// CreateSale validates stock and writes the sale header, its details and the
// stock decrements in one transaction. Details must carry ItemID, Price,
// Quantity and TotalDetail; SaleID and ID are filled in.
func (s *Store) CreateSale(ctx context.Context, sale *models.Sale, details []models.SaleDetail) (*SaleResult, error) {
	var result *SaleResult

	err := s.withTx(ctx, "create sale", func(tx *sqlx.Tx) error {
		if err := requireRow(ctx, tx, "customers", "customer", sale.CustomerID); err != nil {
			return err
		}

		itemIDs, requested, err := aggregateLines(details)
		if err != nil {
			return err
		}

		levels, err := stockLevels(ctx, tx, itemIDs, s.forUpdate())
		if err != nil {
			return err
		}
		byID := make(map[int64]models.StockLevel, len(levels))
		for _, l := range levels {
			byID[l.ItemID] = l
		}

		for _, id := range itemIDs {
			if _, ok := byID[id]; !ok {
				return errs.NotFound("item", id)
			}
		}
		for _, id := range itemIDs {
			if l := byID[id]; l.Quantity < requested[id] {
				return &errs.InsufficientStockError{
					ItemID:    id,
					ItemName:  l.Name,
					Available: l.Quantity,
					Requested: requested[id],
				}
			}
		}

		sale.DateAdded = now()
		err = tx.GetContext(ctx, &sale.ID, tx.Rebind(`
			INSERT INTO sales (customer_id, sub_total, grand_total, tax_amount, tax_percentage,
				amount_paid, amount_change, idempotency_key, date_added)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			RETURNING id`),
			sale.CustomerID, sale.SubTotal, sale.GrandTotal, sale.TaxAmount, sale.TaxPercentage,
			sale.AmountPaid, sale.AmountChange, sale.IdempotencyKey, sale.DateAdded)
		if err != nil {
			return fmt.Errorf("failed to insert sale: %w", err)
		}

		for i := range details {
			details[i].SaleID = sale.ID
			err := tx.GetContext(ctx, &details[i].ID, tx.Rebind(`
				INSERT INTO sale_details (sale_id, item_id, price, quantity, total_detail)
				VALUES (?, ?, ?, ?, ?)
				RETURNING id`),
				sale.ID, details[i].ItemID, details[i].Price, details[i].Quantity, details[i].TotalDetail)
			if err != nil {
				return fmt.Errorf("failed to insert sale detail: %w", err)
			}
		}

		sorted := append([]int64(nil), itemIDs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		for _, id := range sorted {
			if err := decrementStock(ctx, tx, byID[id], requested[id]); err != nil {
				return err
			}
		}

		after, err := stockLevels(ctx, tx, sorted, "")
		if err != nil {
			return err
		}

		result = &SaleResult{Sale: *sale, Details: details, Stock: after}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetSaleByID retrieves a sale header by ID
func (s *Store) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale, s.db.Rebind("SELECT "+saleColumns+" FROM sales WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("sale", id)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSaleByIdempotencyKey retrieves a sale by idempotency key
func (s *Store) GetSaleByIdempotencyKey(ctx context.Context, key string) (*models.Sale, error) {
	var sale models.Sale
	err := s.db.GetContext(ctx, &sale,
		s.db.Rebind("SELECT "+saleColumns+" FROM sales WHERE idempotency_key = ?"), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

// GetSaleDetails retrieves all details for a sale
func (s *Store) GetSaleDetails(ctx context.Context, saleID int64) ([]models.SaleDetail, error) {
	details := []models.SaleDetail{}
	err := s.db.SelectContext(ctx, &details, s.db.Rebind(`
		SELECT id, sale_id, item_id, price, quantity, total_detail
		FROM sale_details WHERE sale_id = ? ORDER BY id`), saleID)
	return details, err
}

// ListSales retrieves sales, newest first
func (s *Store) ListSales(ctx context.Context, f SaleFilter) ([]models.Sale, error) {
	var conds []string
	var args []interface{}
	if f.CustomerID > 0 {
		conds = append(conds, "customer_id = ?")
		args = append(args, f.CustomerID)
	}
	if f.From != nil {
		conds = append(conds, "date_added >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		conds = append(conds, "date_added <= ?")
		args = append(args, f.To.UTC())
	}
	args = append(args, clampLimit(f.Limit), f.Offset)

	query := "SELECT " + saleColumns + " FROM sales" + whereClause(conds) +
		" ORDER BY date_added DESC, id DESC LIMIT ? OFFSET ?"

	sales := []models.Sale{}
	err := s.db.SelectContext(ctx, &sales, s.db.Rebind(query), args...)
	return sales, err
}

// DeleteSale removes a sale with its details and puts the sold units back
// in stock, in one transaction
func (s *Store) DeleteSale(ctx context.Context, id int64) (*SaleResult, error) {
	var result *SaleResult

	err := s.withTx(ctx, "delete sale", func(tx *sqlx.Tx) error {
		var sale models.Sale
		err := tx.GetContext(ctx, &sale,
			tx.Rebind("SELECT "+saleColumns+" FROM sales WHERE id = ?"+s.forUpdate()), id)
		if errors.Is(err, sql.ErrNoRows) {
			return errs.NotFound("sale", id)
		}
		if err != nil {
			return err
		}

		details := []models.SaleDetail{}
		err = tx.SelectContext(ctx, &details, tx.Rebind(`
			SELECT id, sale_id, item_id, price, quantity, total_detail
			FROM sale_details WHERE sale_id = ? ORDER BY id`), id)
		if err != nil {
			return err
		}

		itemIDs, returned, err := aggregateLines(details)
		if err != nil {
			return err
		}
		sort.Slice(itemIDs, func(i, j int) bool { return itemIDs[i] < itemIDs[j] })
		if _, err := stockLevels(ctx, tx, itemIDs, s.forUpdate()); err != nil {
			return err
		}
		for _, itemID := range itemIDs {
			if err := incrementStock(ctx, tx, itemID, returned[itemID]); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM sale_details WHERE sale_id = ?"), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM sales WHERE id = ?"), id); err != nil {
			return err
		}

		after, err := stockLevels(ctx, tx, itemIDs, "")
		if err != nil {
			return err
		}
		result = &SaleResult{Sale: sale, Details: details, Stock: after}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// aggregateLines sums quantities per item, keeping first-seen order. Every
// quantity must be positive and no total may overflow.
func aggregateLines(details []models.SaleDetail) ([]int64, map[int64]int64, error) {
	ids := make([]int64, 0, len(details))
	totals := make(map[int64]int64, len(details))
	for i, d := range details {
		if d.Quantity <= 0 {
			return nil, nil, errs.Malformed(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
		}
		total, seen := totals[d.ItemID]
		if !seen {
			ids = append(ids, d.ItemID)
		}
		if total > math.MaxInt64-d.Quantity {
			return nil, nil, errs.Malformed(fmt.Sprintf("items[%d].quantity", i), "total quantity for this item is too large")
		}
		totals[d.ItemID] = total + d.Quantity
	}
	return ids, totals, nil
}

// decrementStock removes units from an item only if enough remain
func decrementStock(ctx context.Context, tx *sqlx.Tx, level models.StockLevel, quantity int64) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE items
		SET quantity = quantity - ?, version = version + 1, updated_at = ?
		WHERE id = ? AND quantity >= ?`),
		quantity, now(), level.ItemID, quantity)
	if err != nil {
		return fmt.Errorf("failed to decrement stock for item %d: %w", level.ItemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var available int64
		if err := tx.GetContext(ctx, &available,
			tx.Rebind("SELECT quantity FROM items WHERE id = ?"), level.ItemID); err != nil {
			return err
		}
		return &errs.InsufficientStockError{
			ItemID:    level.ItemID,
			ItemName:  level.Name,
			Available: available,
			Requested: quantity,
		}
	}
	return nil
}

// incrementStock adds units to an item
func incrementStock(ctx context.Context, tx *sqlx.Tx, itemID, quantity int64) error {
	res, err := tx.ExecContext(ctx, tx.Rebind(`
		UPDATE items
		SET quantity = quantity + ?, version = version + 1, updated_at = ?
		WHERE id = ?`),
		quantity, now(), itemID)
	if err != nil {
		return fmt.Errorf("failed to increment stock for item %d: %w", itemID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("item", itemID)
	}
	return nil
}

// requireRow returns a NotFoundError unless table has a row with id
func requireRow(ctx context.Context, tx *sqlx.Tx, table, entity string, id int64) error {
	var exists bool
	err := tx.GetContext(ctx, &exists,
		tx.Rebind("SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)"), id)
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", entity, err)
	}
	if !exists {
		return errs.NotFound(entity, id)
	}
	return nil
}
