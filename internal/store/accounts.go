package store

import (
	"context"
	"database/sql"
	"errors"

	"inventory-service/internal/errs"
	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
)

const customerColumns = "id, first_name, last_name, address, email, phone, loyalty_points, created_at"

// CreateCustomer creates a new customer
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	c.CreatedAt = now()
	query := s.db.Rebind(`
		INSERT INTO customers (first_name, last_name, address, email, phone, loyalty_points, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?)
		RETURNING id`)

	return s.db.GetContext(ctx, &c.ID, query,
		c.FirstName, c.LastName, c.Address, c.Email, c.Phone, c.CreatedAt)
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var c models.Customer
	err := s.db.GetContext(ctx, &c,
		s.db.Rebind("SELECT "+customerColumns+" FROM customers WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("customer", id)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers retrieves customers whose name matches q
func (s *Store) ListCustomers(ctx context.Context, q string, limit, offset int) ([]models.Customer, error) {
	var conds []string
	var args []interface{}
	if q != "" {
		conds = append(conds, "(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?)")
		args = append(args, likePattern(q), likePattern(q))
	}
	args = append(args, clampLimit(limit), offset)

	customers := []models.Customer{}
	query := "SELECT " + customerColumns + " FROM customers" + whereClause(conds) +
		" ORDER BY first_name, last_name, id LIMIT ? OFFSET ?"
	err := s.db.SelectContext(ctx, &customers, s.db.Rebind(query), args...)
	return customers, err
}

// UpdateCustomer updates a customer's contact details. Loyalty points are
// left untouched.
func (s *Store) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE customers
		SET first_name = ?, last_name = ?, address = ?, email = ?, phone = ?
		WHERE id = ?`),
		c.FirstName, c.LastName, c.Address, c.Email, c.Phone, c.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("customer", c.ID)
	}
	return nil
}

// DeleteCustomer removes a customer without sales
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete customer", func(tx *sqlx.Tx) error {
		if err := rejectIfReferenced(ctx, tx, "sales", "customer_id", id, "customer has recorded sales"); err != nil {
			return err
		}
		return deleteByID(ctx, tx, "customers", "customer", id)
	})
}

// AwardLoyaltyPoints adds a sale's points to its customer once per event
// and once per sale. It reports false when either was already recorded.
func (s *Store) AwardLoyaltyPoints(ctx context.Context, eventID, eventType string, saleID, customerID, points int64) (bool, error) {
	applied := false
	err := s.withTx(ctx, "award loyalty points", func(tx *sqlx.Tx) error {
		first, err := markEventProcessed(ctx, tx, eventID, eventType)
		if err != nil || !first {
			return err
		}

		res, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO loyalty_awards (sale_id, customer_id, points, awarded_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (sale_id) DO NOTHING`),
			saleID, customerID, points, now())
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil || n == 0 {
			return err
		}

		res, err = tx.ExecContext(ctx,
			tx.Rebind("UPDATE customers SET loyalty_points = loyalty_points + ? WHERE id = ?"),
			points, customerID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.NotFound("customer", customerID)
		}
		applied = true
		return nil
	})
	return applied, err
}

// ReverseLoyaltyPoints takes back the points awarded for a sale, once per
// event. It returns the points removed, zero when the sale earned none or
// the event was already processed. A balance never drops below zero.
func (s *Store) ReverseLoyaltyPoints(ctx context.Context, eventID, eventType string, saleID int64) (int64, error) {
	var reversed int64
	err := s.withTx(ctx, "reverse loyalty points", func(tx *sqlx.Tx) error {
		first, err := markEventProcessed(ctx, tx, eventID, eventType)
		if err != nil || !first {
			return err
		}

		var award struct {
			CustomerID int64 `db:"customer_id"`
			Points     int64 `db:"points"`
		}
		err = tx.GetContext(ctx, &award, tx.Rebind(
			"SELECT customer_id, points FROM loyalty_awards WHERE sale_id = ?"+s.forUpdate()), saleID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM loyalty_awards WHERE sale_id = ?"), saleID); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			UPDATE customers
			SET loyalty_points = CASE WHEN loyalty_points > ? THEN loyalty_points - ? ELSE 0 END
			WHERE id = ?`),
			award.Points, award.Points, award.CustomerID)
		if err != nil {
			return err
		}
		reversed = award.Points
		return nil
	})
	return reversed, err
}

// CreateVendor creates a new vendor
func (s *Store) CreateVendor(ctx context.Context, v *models.Vendor) error {
	v.CreatedAt = now()
	query := s.db.Rebind(`
		INSERT INTO vendors (name, phone, address, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	return s.db.GetContext(ctx, &v.ID, query, v.Name, v.Phone, v.Address, v.CreatedAt)
}

// GetVendorByID retrieves a vendor by ID
func (s *Store) GetVendorByID(ctx context.Context, id int64) (*models.Vendor, error) {
	var v models.Vendor
	err := s.db.GetContext(ctx, &v,
		s.db.Rebind("SELECT id, name, phone, address, created_at FROM vendors WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("vendor", id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVendors retrieves all vendors
func (s *Store) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	vendors := []models.Vendor{}
	err := s.db.SelectContext(ctx, &vendors,
		"SELECT id, name, phone, address, created_at FROM vendors ORDER BY name, id")
	return vendors, err
}

// UpdateVendor updates a vendor's details
func (s *Store) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE vendors SET name = ?, phone = ?, address = ? WHERE id = ?"),
		v.Name, v.Phone, v.Address, v.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.NotFound("vendor", v.ID)
	}
	return nil
}

// DeleteVendor removes a vendor without purchases. Items it supplied keep
// existing without a vendor.
func (s *Store) DeleteVendor(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete vendor", func(tx *sqlx.Tx) error {
		if err := rejectIfReferenced(ctx, tx, "purchases", "vendor_id", id, "vendor has recorded purchases"); err != nil {
			return err
		}
		return deleteByID(ctx, tx, "vendors", "vendor", id)
	})
}

// markEventProcessed records an event and reports whether this call was
// the first to do so
func markEventProcessed(ctx context.Context, tx *sqlx.Tx, eventID, eventType string) (bool, error) {
	res, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO processed_events (event_id, event_type, processed_at)
		VALUES (?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING`),
		eventID, eventType, now())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		s.db.Rebind("SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = ?)"), eventID)
	return exists, err
}
