package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/erazemk/trgovina/internal/model"
)

// base is the creation time of the first fixture shipment.
var base = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func mustAddress(t *testing.T, database *sql.DB, countryID, stateID int64, county, city string) int64 {
	t.Helper()
	a, err := CreateAddress(context.Background(), database, &model.Address{
		CountryID: countryID, StateProvinceID: stateID, County: county, City: city,
	})
	if err != nil {
		t.Fatalf("CreateAddress: %v", err)
	}
	return a.ID
}

func mustProduct(t *testing.T, database *sql.DB, vendorID int64, manage string, warehouses bool) *model.Product {
	t.Helper()
	p, err := CreateProduct(context.Background(), database, &model.Product{
		Name: "Product", VendorID: vendorID, ManageInventory: manage, UseMultipleWarehouses: warehouses,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return p
}

func mustOrder(t *testing.T, database *sql.DB, o model.Order) *model.Order {
	t.Helper()
	created, err := CreateOrder(context.Background(), database, &o)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return created
}

func mustOrderItem(t *testing.T, database *sql.DB, orderID, productID int64) int64 {
	t.Helper()
	oi, err := CreateOrderItem(context.Background(), database, orderID, productID, 10)
	if err != nil {
		t.Fatalf("CreateOrderItem: %v", err)
	}
	return oi.ID
}

func mustShipment(t *testing.T, database *sql.DB, orderID int64, tracking string, createdAt time.Time) *model.Shipment {
	t.Helper()
	s, err := CreateShipment(context.Background(), database, &model.Shipment{
		OrderID: orderID, TrackingNumber: tracking, CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}
	return s
}

func mustShipmentItem(t *testing.T, database *sql.DB, shipmentID, orderItemID, warehouseID int64, quantity int) {
	t.Helper()
	_, err := CreateShipmentItem(context.Background(), database, &model.ShipmentItem{
		ShipmentID: shipmentID, OrderItemID: orderItemID, WarehouseID: warehouseID, Quantity: quantity,
	})
	if err != nil {
		t.Fatalf("CreateShipmentItem: %v", err)
	}
}

func shipmentIDs(shipments []model.Shipment) []int64 {
	ids := make([]int64, 0, len(shipments))
	for _, s := range shipments {
		ids = append(ids, s.ID)
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}
