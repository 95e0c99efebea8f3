package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/trgovina/internal/model"
)

const shipmentColumns = `s.id, s.order_id, s.tracking_number, s.total_weight, s.admin_comment,
	s.shipped_at, s.delivered_at, s.created_at`

// CreateShipment inserts a shipment. CreatedAt defaults to the current time.
func CreateShipment(ctx context.Context, db *sql.DB, s *model.Shipment) (*model.Shipment, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: shipment is nil", ErrInvalidArgument)
	}
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO shipments (order_id, tracking_number, total_weight, admin_comment, shipped_at, delivered_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.OrderID, s.TrackingNumber, s.TotalWeight, s.AdminComment,
		utcPtr(s.ShippedAt), utcPtr(s.DeliveredAt), createdAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shipment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting shipment id: %w", err)
	}

	return GetShipment(ctx, db, id)
}

// GetShipment returns a shipment by ID.
func GetShipment(ctx context.Context, db *sql.DB, id int64) (*model.Shipment, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments s WHERE s.id = ?`, id,
	)
	s, err := scanShipment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting shipment: %w", err)
	}
	return s, nil
}

// GetShipmentsByIDs returns the shipments with the given IDs in the order the
// IDs were requested. Unknown IDs are skipped.
func GetShipmentsByIDs(ctx context.Context, db *sql.DB, ids []int64) ([]model.Shipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+shipmentColumns+` FROM shipments s WHERE s.id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("getting shipments by ids: %w", err)
	}
	defer rows.Close()

	found, err := scanShipments(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Shipment, len(found))
	for _, s := range found {
		byID[s.ID] = s
	}
	var shipments []model.Shipment
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			shipments = append(shipments, s)
		}
	}
	return shipments, nil
}

// ListOrderShipments returns the shipments of an order. If shipped is non-nil,
// only shipped (true) or not yet shipped (false) shipments are returned.
func ListOrderShipments(ctx context.Context, db *sql.DB, orderID int64, shipped *bool) ([]model.Shipment, error) {
	if orderID == 0 {
		return []model.Shipment{}, nil
	}

	query := `SELECT ` + shipmentColumns + ` FROM shipments s WHERE s.order_id = ?`
	if shipped != nil {
		if *shipped {
			query += ` AND s.shipped_at IS NOT NULL`
		} else {
			query += ` AND s.shipped_at IS NULL`
		}
	}
	query += ` ORDER BY s.id`

	rows, err := db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order shipments: %w", err)
	}
	defer rows.Close()

	return scanShipments(rows)
}

// UpdateShipment updates a shipment's tracking data and timestamps.
func UpdateShipment(ctx context.Context, db *sql.DB, s *model.Shipment) error {
	if s == nil {
		return fmt.Errorf("%w: shipment is nil", ErrInvalidArgument)
	}
	_, err := db.ExecContext(ctx,
		`UPDATE shipments SET tracking_number = ?, total_weight = ?, admin_comment = ?,
		        shipped_at = ?, delivered_at = ?
		 WHERE id = ?`,
		s.TrackingNumber, s.TotalWeight, s.AdminComment,
		utcPtr(s.ShippedAt), utcPtr(s.DeliveredAt), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating shipment: %w", err)
	}
	return nil
}

// DeleteShipment deletes a shipment together with its items.
func DeleteShipment(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM shipments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting shipment: %w", err)
	}
	return nil
}

// SearchShipments returns one page of shipments matching every non-zero field
// of the filter, newest first. A pageSize of 0 returns all matches.
//
// Vendor and warehouse predicates join shipment items and so fan out; the
// query always ends in a single SELECT DISTINCT so a shipment appears at most
// once. Shipments of deleted orders are never returned.
func SearchShipments(ctx context.Context, db *sql.DB, f model.ShipmentFilter, pageIndex, pageSize int) (*model.ShipmentPage, error) {
	if pageIndex < 0 || pageSize < 0 {
		return nil, fmt.Errorf("%w: page index and page size must not be negative", ErrInvalidArgument)
	}

	from, args := shipmentSearchFrom(f)

	var total int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM (SELECT DISTINCT s.id `+from+`)`, args...,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("counting shipments: %w", err)
	}

	// Pages past the end are answered without a query. Checking against the
	// last page index also keeps pageIndex*pageSize from overflowing.
	var shipments []model.Shipment
	pastEnd := total == 0 || (pageSize > 0 && pageIndex > (total-1)/pageSize)
	if !pastEnd {
		query := `SELECT DISTINCT ` + shipmentColumns + ` ` + from + ` ORDER BY s.created_at DESC, s.id`
		pageArgs := append([]any{}, args...)
		if pageSize > 0 {
			query += ` LIMIT ? OFFSET ?`
			pageArgs = append(pageArgs, pageSize, pageIndex*pageSize)
		}

		rows, err := db.QueryContext(ctx, query, pageArgs...)
		if err != nil {
			return nil, fmt.Errorf("searching shipments: %w", err)
		}
		defer rows.Close()

		shipments, err = scanShipments(rows)
		if err != nil {
			return nil, err
		}
	}
	if shipments == nil {
		shipments = []model.Shipment{}
	}

	page := &model.ShipmentPage{
		Shipments:  shipments,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalCount: total,
	}
	switch {
	case total == 0:
		page.TotalPages = 0
	case pageSize == 0:
		page.TotalPages = 1
	default:
		page.TotalPages = (total + pageSize - 1) / pageSize
	}
	return page, nil
}

// shipmentSearchFrom builds the FROM/JOIN/WHERE part of a shipment search.
func shipmentSearchFrom(f model.ShipmentFilter) (string, []any) {
	joins := []string{`JOIN orders o ON o.id = s.order_id`}
	where := []string{`o.deleted = 0`}
	var args []any

	if f.OrderID > 0 {
		where = append(where, `s.order_id = ?`)
		args = append(args, f.OrderID)
	}
	if f.TrackingNumber != "" {
		where = append(where, `s.tracking_number LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.TrackingNumber))
	}

	county := strings.TrimSpace(f.County) != ""
	city := strings.TrimSpace(f.City) != ""
	if f.CountryID > 0 || f.StateProvinceID > 0 || county || city {
		joins = append(joins,
			`JOIN addresses a ON a.id = CASE WHEN o.pickup_in_store THEN o.pickup_address_id ELSE o.shipping_address_id END`)
	}
	if f.CountryID > 0 {
		where = append(where, `a.country_id = ?`)
		args = append(args, f.CountryID)
	}
	if f.StateProvinceID > 0 {
		where = append(where, `a.state_province_id = ?`)
		args = append(args, f.StateProvinceID)
	}
	if county {
		where = append(where, `a.county LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.County))
	}
	if city {
		where = append(where, `a.city LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.City))
	}

	if f.NotShipped {
		where = append(where, `s.shipped_at IS NULL`)
	}
	if f.NotDelivered {
		where = append(where, `s.delivered_at IS NULL`)
	}
	if f.CreatedFrom != nil {
		where = append(where, `s.created_at >= ?`)
		args = append(args, f.CreatedFrom.UTC())
	}
	if f.CreatedTo != nil {
		where = append(where, `s.created_at <= ?`)
		args = append(args, f.CreatedTo.UTC())
	}

	if f.VendorID > 0 {
		joins = append(joins,
			`JOIN shipment_items vsi ON vsi.shipment_id = s.id`,
			`JOIN order_items voi ON voi.id = vsi.order_item_id`,
			`JOIN products vp ON vp.id = voi.product_id`)
		where = append(where, `vp.vendor_id = ?`)
		args = append(args, f.VendorID)
	}
	if f.WarehouseID > 0 {
		joins = append(joins, `JOIN shipment_items wsi ON wsi.shipment_id = s.id`)
		where = append(where, `wsi.warehouse_id = ?`)
		args = append(args, f.WarehouseID)
	}

	from := `FROM shipments s ` + strings.Join(joins, ` `) + ` WHERE ` + strings.Join(where, ` AND `)
	return from, args
}

// QuantityInShipments returns how many units of a product are packed into
// shipments of live (not deleted, not cancelled) orders. Only products whose
// stock is tracked per warehouse are counted; for all others it returns 0.
func QuantityInShipments(ctx context.Context, db *sql.DB, product *model.Product, warehouseID int64, ignoreShipped, ignoreDelivered bool) (int, error) {
	if product == nil {
		return 0, fmt.Errorf("%w: product is nil", ErrInvalidArgument)
	}
	if !product.TracksWarehouseStock() {
		return 0, nil
	}

	// Each item joins exactly one shipment, order and order item.
	query := `SELECT COALESCE(SUM(si.quantity), 0)
	          FROM shipment_items si
	          JOIN shipments s ON s.id = si.shipment_id
	          JOIN orders o ON o.id = s.order_id
	          JOIN order_items oi ON oi.id = si.order_item_id
	          WHERE o.deleted = 0 AND o.status <> ? AND oi.product_id = ?`
	args := []any{model.OrderStatusCancelled, product.ID}

	if warehouseID > 0 {
		query += ` AND si.warehouse_id = ?`
		args = append(args, warehouseID)
	}
	if ignoreShipped {
		query += ` AND s.shipped_at IS NULL`
	}
	if ignoreDelivered {
		query += ` AND s.delivered_at IS NULL`
	}

	var quantity int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&quantity); err != nil {
		return 0, fmt.Errorf("summing quantity in shipments: %w", err)
	}
	return quantity, nil
}

// CreateShipmentItem adds an item to a shipment. The order item must exist
// and belong to the shipment's order.
func CreateShipmentItem(ctx context.Context, db *sql.DB, item *model.ShipmentItem) (*model.ShipmentItem, error) {
	if item == nil {
		return nil, fmt.Errorf("%w: shipment item is nil", ErrInvalidArgument)
	}
	if item.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}

	var shipmentOrderID, itemOrderID sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT order_id FROM shipments WHERE id = ?),
		        (SELECT order_id FROM order_items WHERE id = ?)`,
		item.ShipmentID, item.OrderItemID,
	).Scan(&shipmentOrderID, &itemOrderID)
	if err != nil {
		return nil, fmt.Errorf("checking shipment item references: %w", err)
	}
	switch {
	case !shipmentOrderID.Valid:
		return nil, fmt.Errorf("%w: shipment %d does not exist", ErrInvalidArgument, item.ShipmentID)
	case !itemOrderID.Valid:
		return nil, fmt.Errorf("%w: order item %d does not exist", ErrInvalidArgument, item.OrderItemID)
	case itemOrderID.Int64 != shipmentOrderID.Int64:
		return nil, fmt.Errorf("%w: order item %d belongs to order %d, not %d",
			ErrInvalidArgument, item.OrderItemID, itemOrderID.Int64, shipmentOrderID.Int64)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO shipment_items (shipment_id, order_item_id, warehouse_id, quantity) VALUES (?, ?, ?, ?)`,
		item.ShipmentID, item.OrderItemID, item.WarehouseID, item.Quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("creating shipment item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting shipment item id: %w", err)
	}

	return GetShipmentItem(ctx, db, id)
}

// GetShipmentItem returns a shipment item by ID.
func GetShipmentItem(ctx context.Context, db *sql.DB, id int64) (*model.ShipmentItem, error) {
	si := &model.ShipmentItem{}
	err := db.QueryRowContext(ctx,
		`SELECT id, shipment_id, order_item_id, warehouse_id, quantity FROM shipment_items WHERE id = ?`, id,
	).Scan(&si.ID, &si.ShipmentID, &si.OrderItemID, &si.WarehouseID, &si.Quantity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting shipment item: %w", err)
	}
	return si, nil
}

// ListShipmentItems returns the items of a shipment. It returns nil for
// shipment ID 0.
func ListShipmentItems(ctx context.Context, db *sql.DB, shipmentID int64) ([]model.ShipmentItem, error) {
	if shipmentID == 0 {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, shipment_id, order_item_id, warehouse_id, quantity
		 FROM shipment_items WHERE shipment_id = ? ORDER BY id`, shipmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing shipment items: %w", err)
	}
	defer rows.Close()

	var items []model.ShipmentItem
	for rows.Next() {
		var si model.ShipmentItem
		if err := rows.Scan(&si.ID, &si.ShipmentID, &si.OrderItemID, &si.WarehouseID, &si.Quantity); err != nil {
			return nil, fmt.Errorf("scanning shipment item: %w", err)
		}
		items = append(items, si)
	}
	return items, rows.Err()
}

// UpdateShipmentItem updates an item's warehouse and quantity.
func UpdateShipmentItem(ctx context.Context, db *sql.DB, item *model.ShipmentItem) error {
	if item == nil {
		return fmt.Errorf("%w: shipment item is nil", ErrInvalidArgument)
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidArgument)
	}
	_, err := db.ExecContext(ctx,
		`UPDATE shipment_items SET warehouse_id = ?, quantity = ? WHERE id = ?`,
		item.WarehouseID, item.Quantity, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating shipment item: %w", err)
	}
	return nil
}

// DeleteShipmentItem deletes a shipment item.
func DeleteShipmentItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM shipment_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting shipment item: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*model.Shipment, error) {
	s := &model.Shipment{}
	if err := row.Scan(&s.ID, &s.OrderID, &s.TrackingNumber, &s.TotalWeight, &s.AdminComment,
		&s.ShippedAt, &s.DeliveredAt, &s.CreatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func scanShipments(rows *sql.Rows) ([]model.Shipment, error) {
	var shipments []model.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning shipment: %w", err)
		}
		shipments = append(shipments, *s)
	}
	return shipments, rows.Err()
}

// containsPattern turns s into a LIKE pattern matching any value containing s.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
