package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/trgovina/internal/model"
)

// CreateAddress creates a new address.
func CreateAddress(ctx context.Context, db *sql.DB, a *model.Address) (*model.Address, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO addresses (country_id, state_province_id, county, city, address1, zip_postal_code, custom_attributes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.CountryID, a.StateProvinceID, a.County, a.City, a.Address1, a.ZipPostalCode, a.CustomAttributes,
	)
	if err != nil {
		return nil, fmt.Errorf("creating address: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting address id: %w", err)
	}

	return GetAddress(ctx, db, id)
}

// GetAddress returns an address by ID.
func GetAddress(ctx context.Context, db *sql.DB, id int64) (*model.Address, error) {
	a := &model.Address{}
	err := db.QueryRowContext(ctx,
		`SELECT id, country_id, state_province_id, county, city, address1, zip_postal_code, custom_attributes
		 FROM addresses WHERE id = ?`, id,
	).Scan(&a.ID, &a.CountryID, &a.StateProvinceID, &a.County, &a.City, &a.Address1, &a.ZipPostalCode, &a.CustomAttributes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting address: %w", err)
	}
	return a, nil
}

// CreateProduct creates a new product.
func CreateProduct(ctx context.Context, db *sql.DB, p *model.Product) (*model.Product, error) {
	manage := p.ManageInventory
	if manage == "" {
		manage = model.ManageInventoryNone
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO products (name, vendor_id, manage_inventory, use_multiple_warehouses) VALUES (?, ?, ?, ?)`,
		p.Name, p.VendorID, manage, p.UseMultipleWarehouses,
	)
	if err != nil {
		return nil, fmt.Errorf("creating product: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting product id: %w", err)
	}

	return GetProduct(ctx, db, id)
}

// GetProduct returns a product by ID.
func GetProduct(ctx context.Context, db *sql.DB, id int64) (*model.Product, error) {
	p := &model.Product{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, vendor_id, manage_inventory, use_multiple_warehouses FROM products WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.VendorID, &p.ManageInventory, &p.UseMultipleWarehouses)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting product: %w", err)
	}
	return p, nil
}

// CreateOrder creates a new order. A missing GUID or status is filled in.
func CreateOrder(ctx context.Context, db *sql.DB, o *model.Order) (*model.Order, error) {
	guid := o.OrderGUID
	if guid == "" {
		guid = uuid.NewString()
	}
	status := o.Status
	if status == "" {
		status = model.OrderStatusPending
	}
	createdAt := o.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO orders (order_guid, deleted, pickup_in_store, shipping_address_id, pickup_address_id, status, shipping_method, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		guid, o.Deleted, o.PickupInStore, o.ShippingAddressID, o.PickupAddressID, status, o.ShippingMethod, createdAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order id: %w", err)
	}

	return GetOrder(ctx, db, id)
}

// GetOrder returns an order by ID, including deleted orders.
func GetOrder(ctx context.Context, db *sql.DB, id int64) (*model.Order, error) {
	o := &model.Order{}
	err := db.QueryRowContext(ctx,
		`SELECT id, order_guid, deleted, pickup_in_store, shipping_address_id, pickup_address_id,
		        status, shipping_method, created_at
		 FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.OrderGUID, &o.Deleted, &o.PickupInStore, &o.ShippingAddressID, &o.PickupAddressID,
		&o.Status, &o.ShippingMethod, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return o, nil
}

// UpdateOrderStatus sets an order's status.
func UpdateOrderStatus(ctx context.Context, db *sql.DB, id int64, status string) error {
	_, err := db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}
	return nil
}

// DeleteOrder soft-deletes an order.
func DeleteOrder(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `UPDATE orders SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}
	return nil
}

// CreateOrderItem adds a product line to an order.
func CreateOrderItem(ctx context.Context, db *sql.DB, orderID, productID int64, quantity int) (*model.OrderItem, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO order_items (order_id, product_id, quantity) VALUES (?, ?, ?)`,
		orderID, productID, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("creating order item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting order item id: %w", err)
	}

	return &model.OrderItem{ID: id, OrderID: orderID, ProductID: productID, Quantity: quantity}, nil
}
