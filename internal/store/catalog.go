package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, name, description, category_id, vendor_id, quantity, price, version,
	expires_at, created_at, updated_at`

// ItemFilter narrows ListItems
type ItemFilter struct {
	Query      string
	CategoryID int64
	Limit      int
	Offset     int
}

// CreateCategory creates a new category
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	query := s.db.Rebind(`INSERT INTO categories (name) VALUES (?) RETURNING id`)
	return s.db.GetContext(ctx, &category.ID, query, category.Name)
}

// GetCategoryByID retrieves a category by ID
func (s *Store) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	var category models.Category
	err := s.db.GetContext(ctx, &category, s.db.Rebind("SELECT id, name FROM categories WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("category", id)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories retrieves all categories
func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	err := s.db.SelectContext(ctx, &categories, "SELECT id, name FROM categories ORDER BY name")
	return categories, err
}

// UpdateCategory renames a category
func (s *Store) UpdateCategory(ctx context.Context, category *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE categories SET name = ? WHERE id = ?"), category.Name, category.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("category", category.ID)
	}
	return nil
}

// DeleteCategory removes a category that no item belongs to
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete category", func(tx *sqlx.Tx) error {
		if err := rejectIfReferenced(ctx, tx, "items", "category_id", id, "category still has items"); err != nil {
			return err
		}
		return deleteByID(ctx, tx, "categories", "category", id)
	})
}

// CreateItem creates a new catalog item
func (s *Store) CreateItem(ctx context.Context, item *models.Item) error {
	ts := now()
	item.CreatedAt, item.UpdatedAt = ts, ts
	item.Price = item.Price.Round(2)

	query := s.db.Rebind(`
		INSERT INTO items (name, description, category_id, vendor_id, quantity, price, version,
			expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
		RETURNING id`)

	return s.db.GetContext(ctx, &item.ID, query,
		item.Name, item.Description, item.CategoryID, item.VendorID, item.Quantity, item.Price,
		item.ExpiresAt, item.CreatedAt, item.UpdatedAt)
}

// GetItemByID retrieves an item by ID
func (s *Store) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	err := s.db.GetContext(ctx, &item,
		s.db.Rebind("SELECT "+itemColumns+" FROM items WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("item", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems retrieves items matching the filter ordered by name
func (s *Store) ListItems(ctx context.Context, f ItemFilter) ([]models.Item, error) {
	var conds []string
	var args []interface{}
	if f.Query != "" {
		conds = append(conds, "LOWER(name) LIKE ?")
		args = append(args, likePattern(f.Query))
	}
	if f.CategoryID > 0 {
		conds = append(conds, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	args = append(args, clampLimit(f.Limit), f.Offset)

	query := "SELECT " + itemColumns + " FROM items" + whereClause(conds) +
		" ORDER BY name, id LIMIT ? OFFSET ?"

	items := []models.Item{}
	err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...)
	return items, err
}

// UpdateItem updates catalog fields of an item. Quantity only changes
// through sales and purchases.
func (s *Store) UpdateItem(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = now()
	item.Price = item.Price.Round(2)

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE items
		SET name = ?, description = ?, category_id = ?, vendor_id = ?, price = ?, expires_at = ?, updated_at = ?
		WHERE id = ?`),
		item.Name, item.Description, item.CategoryID, item.VendorID, item.Price, item.ExpiresAt,
		item.UpdatedAt, item.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("item", item.ID)
	}
	return nil
}

// DeleteItem removes an item that was never sold. Its purchases and
// invoices go with it; deliveries keep the row without the item.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete item", func(tx *sqlx.Tx) error {
		if err := rejectIfReferenced(ctx, tx, "sale_details", "item_id", id, "item has recorded sales"); err != nil {
			return err
		}
		return deleteByID(ctx, tx, "items", "item", id)
	})
}

// GetStockLevels retrieves current stock for the given items
func (s *Store) GetStockLevels(ctx context.Context, ids []int64) ([]models.StockLevel, error) {
	return stockLevels(ctx, s.db, ids, "")
}

// ListStockLevels retrieves stock for every item, for cache warm-up
func (s *Store) ListStockLevels(ctx context.Context) ([]models.StockLevel, error) {
	levels := []models.StockLevel{}
	err := s.db.SelectContext(ctx, &levels, "SELECT id, name, quantity, version FROM items ORDER BY id")
	return levels, err
}

// ListLowStock retrieves items with quantity at or below threshold
func (s *Store) ListLowStock(ctx context.Context, threshold int64) ([]models.StockLevel, error) {
	levels := []models.StockLevel{}
	err := s.db.SelectContext(ctx, &levels,
		s.db.Rebind("SELECT id, name, quantity, version FROM items WHERE quantity <= ? ORDER BY quantity, id"),
		threshold)
	return levels, err
}

// GetDashboard aggregates headline counts
func (s *Store) GetDashboard(ctx context.Context) (*models.Dashboard, error) {
	var d models.Dashboard
	err := s.db.GetContext(ctx, &d, `
		SELECT
			(SELECT COUNT(*) FROM items) AS items_count,
			(SELECT COALESCE(SUM(quantity), 0) FROM items) AS total_units,
			(SELECT COUNT(*) FROM customers) AS customers_count,
			(SELECT COUNT(*) FROM vendors) AS vendors_count,
			(SELECT COUNT(*) FROM sales) AS sales_count,
			(SELECT COUNT(*) FROM deliveries) AS delivery_count`)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// queryer is satisfied by both *sqlx.DB and *sqlx.Tx
type queryer interface {
	sqlx.QueryerContext
	Rebind(query string) string
}

// stockLevels reads stock for ids through q, optionally with a lock suffix
func stockLevels(ctx context.Context, q queryer, ids []int64, lock string) ([]models.StockLevel, error) {
	if len(ids) == 0 {
		return []models.StockLevel{}, nil
	}

	query, args, err := sqlx.In("SELECT id, name, quantity, version FROM items WHERE id IN (?) ORDER BY id"+lock, ids)
	if err != nil {
		return nil, err
	}
	query = q.Rebind(query)

	levels := []models.StockLevel{}
	if err := sqlx.SelectContext(ctx, q, &levels, query, args...); err != nil {
		return nil, fmt.Errorf("failed to read stock levels: %w", err)
	}
	return levels, nil
}
