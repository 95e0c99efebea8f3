package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: shipment search filters on creation date and the order's
	// deleted flag on every query.
	`CREATE INDEX IF NOT EXISTS idx_shipments_created ON shipments(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_deleted ON orders(deleted)`,
	// Migration 2: quantity aggregation joins shipment items by order item.
	`CREATE INDEX IF NOT EXISTS idx_shipment_items_order_item ON shipment_items(order_item_id)`,
}

// Migrate ensures the schema exists and applies all migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
