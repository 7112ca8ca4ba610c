package store

import "strings"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id {{pk}},
		name VARCHAR(50) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS vendors (
		id {{pk}},
		name VARCHAR(50) NOT NULL,
		phone VARCHAR(30) NOT NULL DEFAULT '',
		address VARCHAR(50) NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		id {{pk}},
		name VARCHAR(50) NOT NULL,
		description VARCHAR(256) NOT NULL DEFAULT '',
		category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		vendor_id BIGINT REFERENCES vendors(id) ON DELETE SET NULL,
		quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		version BIGINT NOT NULL DEFAULT 0,
		expires_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id {{pk}},
		first_name VARCHAR(256) NOT NULL,
		last_name VARCHAR(256) NOT NULL DEFAULT '',
		address VARCHAR(256) NOT NULL DEFAULT '',
		email VARCHAR(256) NOT NULL DEFAULT '',
		phone VARCHAR(30) NOT NULL DEFAULT '',
		loyalty_points BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id {{pk}},
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		sub_total NUMERIC(12,2) NOT NULL DEFAULT 0,
		grand_total NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
		amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		amount_change NUMERIC(12,2) NOT NULL DEFAULT 0,
		idempotency_key VARCHAR(128) UNIQUE,
		date_added TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sale_details (
		id {{pk}},
		sale_id BIGINT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
		item_id BIGINT NOT NULL REFERENCES items(id),
		price NUMERIC(12,2) NOT NULL,
		quantity BIGINT NOT NULL CHECK (quantity > 0),
		total_detail NUMERIC(12,2) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id {{pk}},
		slug VARCHAR(64) NOT NULL UNIQUE,
		item_id BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		vendor_id BIGINT NOT NULL REFERENCES vendors(id) ON DELETE CASCADE,
		description VARCHAR(300) NOT NULL DEFAULT '',
		quantity BIGINT NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		price NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_value NUMERIC(12,2) NOT NULL,
		delivery_status CHAR(1) NOT NULL DEFAULT 'P',
		order_date TIMESTAMP NOT NULL,
		delivery_date TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id {{pk}},
		slug VARCHAR(64) NOT NULL UNIQUE,
		customer_name VARCHAR(30) NOT NULL,
		contact_number VARCHAR(30) NOT NULL,
		item_id BIGINT NOT NULL REFERENCES items(id) ON DELETE CASCADE,
		price_per_item NUMERIC(12,2) NOT NULL,
		quantity NUMERIC(12,2) NOT NULL DEFAULT 0,
		shipping NUMERIC(12,2) NOT NULL DEFAULT 0,
		total NUMERIC(12,2) NOT NULL,
		grand_total NUMERIC(12,2) NOT NULL,
		date TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bills (
		id {{pk}},
		institution_name VARCHAR(30) NOT NULL,
		phone_number VARCHAR(30) NOT NULL DEFAULT '',
		email VARCHAR(256) NOT NULL DEFAULT '',
		address VARCHAR(255) NOT NULL DEFAULT '',
		description VARCHAR(255) NOT NULL DEFAULT '',
		payment_details VARCHAR(255) NOT NULL,
		amount NUMERIC(12,2) NOT NULL,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		date TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id {{pk}},
		item_id BIGINT REFERENCES items(id) ON DELETE SET NULL,
		customer_name VARCHAR(30) NOT NULL DEFAULT '',
		phone_number VARCHAR(30) NOT NULL DEFAULT '',
		location VARCHAR(20) NOT NULL DEFAULT '',
		date TIMESTAMP NOT NULL,
		is_delivered BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS processed_events (
		event_id VARCHAR(64) PRIMARY KEY,
		event_type VARCHAR(64) NOT NULL,
		processed_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loyalty_awards (
		sale_id BIGINT PRIMARY KEY,
		customer_id BIGINT NOT NULL,
		points BIGINT NOT NULL,
		awarded_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sale_details_sale_id ON sale_details (sale_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_customer_id ON sales (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_item_id ON purchases (item_id)`,
}

func schemaFor(driver string) []string {
	pk := "BIGSERIAL PRIMARY KEY"
	if driver == DriverSQLite {
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	stmts := make([]string, len(schema))
	for i, stmt := range schema {
		stmts[i] = strings.ReplaceAll(stmt, "{{pk}}", pk)
	}
	return stmts
}
