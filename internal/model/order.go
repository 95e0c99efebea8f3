package model

import "time"

// Order is the storefront order a shipment belongs to.
type Order struct {
	ID                int64     `json:"id"`
	OrderGUID         string    `json:"order_guid"`
	Deleted           bool      `json:"deleted"`
	PickupInStore     bool      `json:"pickup_in_store"`
	ShippingAddressID *int64    `json:"shipping_address_id,omitempty"`
	PickupAddressID   *int64    `json:"pickup_address_id,omitempty"`
	Status            string    `json:"status"`
	ShippingMethod    string    `json:"shipping_method"`
	CreatedAt         time.Time `json:"created_at"`
}

// Order statuses.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusComplete   = "complete"
	OrderStatusCancelled  = "cancelled"
)

// EffectiveAddressID returns the address the order is delivered to: the
// pickup point for pickup orders, the shipping address otherwise.
func (o *Order) EffectiveAddressID() *int64 {
	if o.PickupInStore {
		return o.PickupAddressID
	}
	return o.ShippingAddressID
}

// OrderItem is a product line of an order.
type OrderItem struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Address is a postal address used as shipping or pickup destination.
type Address struct {
	ID               int64  `json:"id"`
	CountryID        int64  `json:"country_id"`
	StateProvinceID  int64  `json:"state_province_id"`
	County           string `json:"county,omitempty"`
	City             string `json:"city,omitempty"`
	Address1         string `json:"address1,omitempty"`
	ZipPostalCode    string `json:"zip_postal_code,omitempty"`
	CustomAttributes string `json:"custom_attributes,omitempty"`
}
