package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS addresses (
    id                INTEGER PRIMARY KEY,
    country_id        INTEGER NOT NULL DEFAULT 0,
    state_province_id INTEGER NOT NULL DEFAULT 0,
    county            TEXT NOT NULL DEFAULT '',
    city              TEXT NOT NULL DEFAULT '',
    address1          TEXT NOT NULL DEFAULT '',
    zip_postal_code   TEXT NOT NULL DEFAULT '',
    custom_attributes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
    id                      INTEGER PRIMARY KEY,
    name                    TEXT NOT NULL,
    vendor_id               INTEGER NOT NULL DEFAULT 0,
    manage_inventory        TEXT NOT NULL DEFAULT 'none' CHECK (manage_inventory IN ('none', 'stock', 'attributes')),
    use_multiple_warehouses INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS orders (
    id                  INTEGER PRIMARY KEY,
    order_guid          TEXT NOT NULL,
    deleted             INTEGER NOT NULL DEFAULT 0,
    pickup_in_store     INTEGER NOT NULL DEFAULT 0,
    shipping_address_id INTEGER REFERENCES addresses(id),
    pickup_address_id   INTEGER REFERENCES addresses(id),
    status              TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'processing', 'complete', 'cancelled')),
    shipping_method     TEXT NOT NULL DEFAULT '',
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS order_items (
    id         INTEGER PRIMARY KEY,
    order_id   INTEGER NOT NULL REFERENCES orders(id),
    product_id INTEGER NOT NULL REFERENCES products(id),
    quantity   INTEGER NOT NULL CHECK (quantity > 0)
);

CREATE TABLE IF NOT EXISTS shipments (
    id              INTEGER PRIMARY KEY,
    order_id        INTEGER NOT NULL REFERENCES orders(id),
    tracking_number TEXT NOT NULL DEFAULT '',
    total_weight    REAL,
    admin_comment   TEXT NOT NULL DEFAULT '',
    shipped_at      DATETIME,
    delivered_at    DATETIME,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_shipments_order ON shipments(order_id);

CREATE TABLE IF NOT EXISTS shipment_items (
    id            INTEGER PRIMARY KEY,
    shipment_id   INTEGER NOT NULL REFERENCES shipments(id) ON DELETE CASCADE,
    order_item_id INTEGER NOT NULL REFERENCES order_items(id),
    warehouse_id  INTEGER NOT NULL DEFAULT 0,
    quantity      INTEGER NOT NULL CHECK (quantity > 0)
);

CREATE INDEX IF NOT EXISTS idx_shipment_items_shipment ON shipment_items(shipment_id);

CREATE TABLE IF NOT EXISTS address_attributes (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    control_type  TEXT NOT NULL,
    required      INTEGER NOT NULL DEFAULT 0,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS address_attribute_values (
    id              INTEGER PRIMARY KEY,
    attribute_id    INTEGER NOT NULL REFERENCES address_attributes(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    is_pre_selected INTEGER NOT NULL DEFAULT 0,
    display_order   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS customer_attributes (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    control_type  TEXT NOT NULL,
    required      INTEGER NOT NULL DEFAULT 0,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS customer_attribute_values (
    id              INTEGER PRIMARY KEY,
    attribute_id    INTEGER NOT NULL REFERENCES customer_attributes(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    is_pre_selected INTEGER NOT NULL DEFAULT 0,
    display_order   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS localized_properties (
    locale_key_group TEXT NOT NULL,
    entity_id        INTEGER NOT NULL,
    locale_key       TEXT NOT NULL,
    language_id      INTEGER NOT NULL,
    locale_value     TEXT NOT NULL,
    PRIMARY KEY (locale_key_group, entity_id, locale_key, language_id)
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
