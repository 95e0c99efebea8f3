package install

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/trgovina/internal/attributes"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// Options controls an installation.
type Options struct {
	AdminUser  string
	SampleData bool
}

// Result reports what an installation created.
type Result struct {
	AdminPassword string
	Shipments     int
}

// Run creates the admin account and, if requested, the sample data. The
// schema must already exist.
func Run(ctx context.Context, db *sql.DB, opts Options) (*Result, error) {
	password, err := CreateAdmin(ctx, db, opts.AdminUser)
	if err != nil {
		return nil, err
	}

	res := &Result{AdminPassword: password}
	if !opts.SampleData {
		return res, nil
	}

	n, err := SampleData(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("installing sample data: %w", err)
	}
	res.Shipments = n
	return res, nil
}

// Sample language ids.
const (
	LanguageEnglish   int64 = 1
	LanguageSlovenian int64 = 2
)

// Sample carrier system names, matching the example configuration.
const (
	SampleShippingMethod = "Shipping.Post"
	SamplePickupMethod   = "Pickup.Store"
)

// ErrSampleInstalled is returned when sample data was already seeded.
var ErrSampleInstalled = errors.New("sample data already installed")

// SampleData seeds addresses, products of two vendors, orders with shipments
// and localized address and customer attributes. It returns the number of
// shipments created. Seeding twice fails with ErrSampleInstalled.
func SampleData(ctx context.Context, db *sql.DB) (int, error) {
	if _, ok, err := store.GetSetting(ctx, db, store.SettingSampleInstalled); err != nil {
		return 0, err
	} else if ok {
		return 0, ErrSampleInstalled
	}

	attrIDs, err := installAttributes(ctx, db)
	if err != nil {
		return 0, err
	}
	addrIDs, err := installAddresses(ctx, db, attrIDs)
	if err != nil {
		return 0, err
	}
	products, err := installProducts(ctx, db)
	if err != nil {
		return 0, err
	}
	n, err := installOrders(ctx, db, addrIDs, products)
	if err != nil {
		return 0, err
	}
	if err := store.SetSetting(ctx, db, store.SettingSampleInstalled, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return 0, err
	}
	return n, nil
}

func installAddresses(ctx context.Context, db *sql.DB, attrIDs map[string]int64) ([]int64, error) {
	payload, err := attributes.AddAttribute(model.AttributeKindAddress, "", attrIDs["Floor"], "3")
	if err != nil {
		return nil, err
	}
	payload, err = attributes.AddAttribute(model.AttributeKindAddress, payload, attrIDs["Delivery notes"], "Ring twice.\nThe dog is friendly.")
	if err != nil {
		return nil, err
	}

	addresses := []model.Address{
		{CountryID: 1, StateProvinceID: 0, County: "Osrednjeslovenska", City: "Ljubljana", Address1: "Slovenska cesta 1", ZipPostalCode: "1000", CustomAttributes: payload},
		{CountryID: 1, StateProvinceID: 0, County: "Podravska", City: "Maribor", Address1: "Glavni trg 14", ZipPostalCode: "2000"},
		{CountryID: 2, StateProvinceID: 21, County: "Styria", City: "Graz", Address1: "Herrengasse 16", ZipPostalCode: "8010"},
	}

	var ids []int64
	for i := range addresses {
		a, err := store.CreateAddress(ctx, db, &addresses[i])
		if err != nil {
			return nil, err
		}
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func installProducts(ctx context.Context, db *sql.DB) ([]*model.Product, error) {
	products := []model.Product{
		{Name: "Hiking boots", VendorID: 1, ManageInventory: model.ManageInventoryStock, UseMultipleWarehouses: true},
		{Name: "Rain jacket", VendorID: 1, ManageInventory: model.ManageInventoryStock, UseMultipleWarehouses: true},
		{Name: "Gift card", VendorID: 2, ManageInventory: model.ManageInventoryNone},
	}

	var created []*model.Product
	for i := range products {
		p, err := store.CreateProduct(ctx, db, &products[i])
		if err != nil {
			return nil, err
		}
		created = append(created, p)
	}
	return created, nil
}

type sampleAttribute struct {
	attr   model.Attribute
	local  string
	values []sampleValue
}

type sampleValue struct {
	name  string
	local string
}

// installAttributes creates the sample attributes and returns their ids by
// name.
func installAttributes(ctx context.Context, db *sql.DB) (map[string]int64, error) {
	samples := []sampleAttribute{
		{attr: model.Attribute{Kind: model.AttributeKindAddress, Name: "Delivery notes", ControlType: model.ControlMultilineTextbox, DisplayOrder: 1}, local: "Opombe za dostavo"},
		{attr: model.Attribute{Kind: model.AttributeKindAddress, Name: "Floor", ControlType: model.ControlTextbox, DisplayOrder: 2}, local: "Nadstropje"},
		{attr: model.Attribute{Kind: model.AttributeKindCustomer, Name: "Newsletter", ControlType: model.ControlCheckboxes, DisplayOrder: 1}, local: "E-novice",
			values: []sampleValue{{"Weekly", "Tedensko"}, {"Monthly", "Mesečno"}}},
		{attr: model.Attribute{Kind: model.AttributeKindCustomer, Name: "Shoe size", ControlType: model.ControlDropdown, DisplayOrder: 2}, local: "Velikost čevljev",
			values: []sampleValue{{"42", ""}, {"43", ""}, {"44", ""}}},
	}

	ids := make(map[string]int64)
	for _, s := range samples {
		a, err := store.CreateAttribute(ctx, db, &s.attr)
		if err != nil {
			return nil, err
		}
		ids[a.Name] = a.ID
		if err := store.SetLocalized(ctx, db, a.LocaleKey(model.FieldName), LanguageSlovenian, s.local); err != nil {
			return nil, err
		}

		for i, sv := range s.values {
			v, err := store.CreateAttributeValue(ctx, db, &model.AttributeValue{
				Kind: a.Kind, AttributeID: a.ID, Name: sv.name, DisplayOrder: i, IsPreSelected: i == 0,
			})
			if err != nil {
				return nil, err
			}
			if sv.local == "" {
				continue
			}
			if err := store.SetLocalized(ctx, db, v.LocaleKey(model.FieldName), LanguageSlovenian, sv.local); err != nil {
				return nil, err
			}
		}
	}
	return ids, nil
}

func installOrders(ctx context.Context, db *sql.DB, addrIDs []int64, products []*model.Product) (int, error) {
	now := time.Now().UTC().Truncate(time.Second)

	type sampleShipment struct {
		tracking  string
		age       time.Duration
		shipped   bool
		delivered bool
		warehouse int64
		products  []int
	}
	orders := []struct {
		order     model.Order
		shipments []sampleShipment
	}{
		{
			order: model.Order{ShippingAddressID: &addrIDs[0], Status: model.OrderStatusComplete, ShippingMethod: SampleShippingMethod},
			shipments: []sampleShipment{
				{tracking: "RR123456785SI", age: 72 * time.Hour, shipped: true, delivered: true, warehouse: 1, products: []int{0, 1}},
			},
		},
		{
			order: model.Order{ShippingAddressID: &addrIDs[1], Status: model.OrderStatusProcessing, ShippingMethod: SampleShippingMethod},
			shipments: []sampleShipment{
				{tracking: "RR987654321SI", age: 24 * time.Hour, shipped: true, warehouse: 1, products: []int{0}},
				{age: time.Hour, warehouse: 2, products: []int{1, 2}},
			},
		},
		{
			order: model.Order{PickupInStore: true, ShippingAddressID: &addrIDs[0], PickupAddressID: &addrIDs[2], Status: model.OrderStatusPending, ShippingMethod: SamplePickupMethod},
			shipments: []sampleShipment{
				{age: 30 * time.Minute, warehouse: 2, products: []int{1}},
			},
		},
	}

	count := 0
	for _, o := range orders {
		o.order.CreatedAt = now.Add(-96 * time.Hour)
		order, err := store.CreateOrder(ctx, db, &o.order)
		if err != nil {
			return 0, err
		}

		itemIDs := make(map[int]int64)
		for _, s := range o.shipments {
			for _, pi := range s.products {
				if _, ok := itemIDs[pi]; ok {
					continue
				}
				oi, err := store.CreateOrderItem(ctx, db, order.ID, products[pi].ID, 2)
				if err != nil {
					return 0, err
				}
				itemIDs[pi] = oi.ID
			}
		}

		for _, s := range o.shipments {
			shipment := &model.Shipment{OrderID: order.ID, TrackingNumber: s.tracking, CreatedAt: now.Add(-s.age)}
			if s.shipped {
				shippedAt := shipment.CreatedAt.Add(time.Hour)
				shipment.ShippedAt = &shippedAt
			}
			if s.delivered {
				deliveredAt := shipment.CreatedAt.Add(48 * time.Hour)
				shipment.DeliveredAt = &deliveredAt
			}
			created, err := store.CreateShipment(ctx, db, shipment)
			if err != nil {
				return 0, err
			}
			for _, pi := range s.products {
				_, err := store.CreateShipmentItem(ctx, db, &model.ShipmentItem{
					ShipmentID: created.ID, OrderItemID: itemIDs[pi], WarehouseID: s.warehouse, Quantity: 1,
				})
				if err != nil {
					return 0, err
				}
			}
			count++
		}
	}
	return count, nil
}
