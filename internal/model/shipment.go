package model

import "time"

// Shipment is a parcel sent for (part of) an order.
type Shipment struct {
	ID             int64      `json:"id"`
	OrderID        int64      `json:"order_id"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	TotalWeight    *float64   `json:"total_weight,omitempty"`
	AdminComment   string     `json:"admin_comment,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ShipmentItem is a quantity of one order item packed into a shipment.
type ShipmentItem struct {
	ID          int64 `json:"id"`
	ShipmentID  int64 `json:"shipment_id"`
	OrderItemID int64 `json:"order_item_id"`
	WarehouseID int64 `json:"warehouse_id"`
	Quantity    int   `json:"quantity"`
}

// ShipmentFilter holds the optional shipment search predicates. Zero values
// disable a predicate.
type ShipmentFilter struct {
	VendorID        int64
	WarehouseID     int64
	CountryID       int64
	StateProvinceID int64
	County          string
	City            string
	TrackingNumber  string
	NotShipped      bool
	NotDelivered    bool
	OrderID         int64
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// ShipmentPage is one page of a shipment search.
type ShipmentPage struct {
	Shipments  []Shipment `json:"shipments"`
	PageIndex  int        `json:"page_index"`
	PageSize   int        `json:"page_size"`
	TotalCount int        `json:"total_count"`
	TotalPages int        `json:"total_pages"`
}

// HasPreviousPage reports whether a page precedes this one.
func (p *ShipmentPage) HasPreviousPage() bool {
	return p.PageIndex > 0
}

// HasNextPage reports whether a page follows this one.
func (p *ShipmentPage) HasNextPage() bool {
	return p.PageIndex+1 < p.TotalPages
}

// ShipmentEvent is a single carrier scan reported by a tracker.
type ShipmentEvent struct {
	EventName   string    `json:"event_name"`
	Location    string    `json:"location,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	Date        time.Time `json:"date"`
}
