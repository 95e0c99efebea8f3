package api

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/shipping"
	"github.com/erazemk/trgovina/internal/store"
)

// DefaultPageSize is the page size of shipment searches without page_size.
const DefaultPageSize = 25

// ShipmentsHandler handles shipment and shipment item endpoints.
type ShipmentsHandler struct {
	DB       *sql.DB
	Trackers *shipping.Resolver
}

type createShipmentRequest struct {
	OrderID        int64    `json:"order_id" validate:"gt=0"`
	TrackingNumber string   `json:"tracking_number" validate:"max=100"`
	TotalWeight    *float64 `json:"total_weight" validate:"omitempty,gte=0"`
	AdminComment   string   `json:"admin_comment"`
}

type updateShipmentRequest struct {
	TrackingNumber string     `json:"tracking_number" validate:"max=100"`
	TotalWeight    *float64   `json:"total_weight" validate:"omitempty,gte=0"`
	AdminComment   string     `json:"admin_comment"`
	ShippedAt      *time.Time `json:"shipped_at"`
	DeliveredAt    *time.Time `json:"delivered_at"`
}

type createShipmentItemRequest struct {
	OrderItemID int64 `json:"order_item_id" validate:"gt=0"`
	WarehouseID int64 `json:"warehouse_id" validate:"gte=0"`
	Quantity    int   `json:"quantity" validate:"gt=0"`
}

type updateShipmentItemRequest struct {
	WarehouseID int64 `json:"warehouse_id" validate:"gte=0"`
	Quantity    int   `json:"quantity" validate:"gt=0"`
}

type trackingResponse struct {
	TrackingNumber string                `json:"tracking_number"`
	TrackingURL    string                `json:"tracking_url,omitempty"`
	Events         []model.ShipmentEvent `json:"events"`
}

// List handles GET /api/shipments.
func (h *ShipmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := parseShipmentFilter(q)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := queryInt(q, "page", 0)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid page")
		return
	}
	pageSize, err := queryInt(q, "page_size", DefaultPageSize)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid page_size")
		return
	}

	result, err := store.SearchShipments(r.Context(), h.DB, filter, page, pageSize)
	if err != nil {
		storeError(w, err, "failed to search shipments")
		return
	}
	jsonResponse(w, http.StatusOK, result)
}

// Create handles POST /api/shipments.
func (h *ShipmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createShipmentRequest
	if err := decodeRequest(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := store.GetOrder(r.Context(), h.DB, req.OrderID)
	if err != nil {
		storeError(w, err, "failed to get order")
		return
	}
	if order == nil || order.Deleted {
		jsonError(w, http.StatusBadRequest, "order not found")
		return
	}

	shipment, err := store.CreateShipment(r.Context(), h.DB, &model.Shipment{
		OrderID:        order.ID,
		TrackingNumber: req.TrackingNumber,
		TotalWeight:    req.TotalWeight,
		AdminComment:   req.AdminComment,
	})
	if err != nil {
		storeError(w, err, "failed to create shipment")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("shipment created", "user", claims.Username, "shipment", shipment.ID, "order", order.ID)
	jsonResponse(w, http.StatusCreated, shipment)
}

// Get handles GET /api/shipments/{id}.
func (h *ShipmentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.loadShipment(w, r)
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, shipment)
}

// Update handles PUT /api/shipments/{id}.
func (h *ShipmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.loadShipment(w, r)
	if !ok {
		return
	}

	var req updateShipmentRequest
	if err := decodeRequest(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.DeliveredAt != nil && req.ShippedAt == nil {
		jsonError(w, http.StatusBadRequest, "a delivered shipment must be shipped")
		return
	}

	shipment.TrackingNumber = req.TrackingNumber
	shipment.TotalWeight = req.TotalWeight
	shipment.AdminComment = req.AdminComment
	shipment.ShippedAt = req.ShippedAt
	shipment.DeliveredAt = req.DeliveredAt

	if err := store.UpdateShipment(r.Context(), h.DB, shipment); err != nil {
		storeError(w, err, "failed to update shipment")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("shipment updated", "user", claims.Username, "shipment", shipment.ID)
	updated, err := store.GetShipment(r.Context(), h.DB, shipment.ID)
	if err != nil {
		storeError(w, err, "failed to get shipment")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/shipments/{id}.
func (h *ShipmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.loadShipment(w, r)
	if !ok {
		return
	}

	if err := store.DeleteShipment(r.Context(), h.DB, shipment.ID); err != nil {
		storeError(w, err, "failed to delete shipment")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("shipment deleted", "user", claims.Username, "shipment", shipment.ID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "shipment deleted"})
}

// Tracking handles GET /api/shipments/{id}/tracking.
func (h *ShipmentsHandler) Tracking(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.loadShipment(w, r)
	if !ok {
		return
	}

	tracker, err := h.Trackers.TrackerFor(r.Context(), shipment)
	if err != nil {
		storeError(w, err, "failed to resolve shipment tracker")
		return
	}
	if tracker == nil {
		jsonError(w, http.StatusNotFound, "no tracker for shipment")
		return
	}

	trackingURL, err := tracker.TrackingURL(r.Context(), shipment.TrackingNumber)
	if err != nil {
		slog.Error("failed to get tracking url", "shipment", shipment.ID, "error", err)
		jsonError(w, http.StatusBadGateway, "tracker unavailable")
		return
	}
	events, err := tracker.ShipmentEvents(r.Context(), shipment.TrackingNumber)
	if err != nil {
		slog.Error("failed to get shipment events", "shipment", shipment.ID, "error", err)
		jsonError(w, http.StatusBadGateway, "tracker unavailable")
		return
	}
	if events == nil {
		events = []model.ShipmentEvent{}
	}

	jsonResponse(w, http.StatusOK, trackingResponse{
		TrackingNumber: shipment.TrackingNumber,
		TrackingURL:    trackingURL,
		Events:         events,
	})
}

// ListItems handles GET /api/shipments/{id}/items.
func (h *ShipmentsHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.loadShipment(w, r)
	if !ok {
		return
	}

	items, err := store.ListShipmentItems(r.Context(), h.DB, shipment.ID)
	if err != nil {
		storeError(w, err, "failed to list shipment items")
		return
	}
	if items == nil {
		items = []model.ShipmentItem{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// CreateItem handles POST /api/shipments/{id}/items.
func (h *ShipmentsHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.loadShipment(w, r)
	if !ok {
		return
	}

	var req createShipmentItemRequest
	if err := decodeRequest(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := store.CreateShipmentItem(r.Context(), h.DB, &model.ShipmentItem{
		ShipmentID:  shipment.ID,
		OrderItemID: req.OrderItemID,
		WarehouseID: req.WarehouseID,
		Quantity:    req.Quantity,
	})
	if err != nil {
		storeError(w, err, "failed to create shipment item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("shipment item created", "user", claims.Username, "shipment", shipment.ID, "item", item.ID)
	jsonResponse(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/shipment-items/{id}.
func (h *ShipmentsHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	var req updateShipmentItemRequest
	if err := decodeRequest(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item.WarehouseID = req.WarehouseID
	item.Quantity = req.Quantity
	if err := store.UpdateShipmentItem(r.Context(), h.DB, item); err != nil {
		storeError(w, err, "failed to update shipment item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("shipment item updated", "user", claims.Username, "item", item.ID)
	jsonResponse(w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/shipment-items/{id}.
func (h *ShipmentsHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	if err := store.DeleteShipmentItem(r.Context(), h.DB, item.ID); err != nil {
		storeError(w, err, "failed to delete shipment item")
		return
	}

	claims := GetClaims(r.Context())
	slog.Info("shipment item deleted", "user", claims.Username, "item", item.ID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "shipment item deleted"})
}

// loadShipment resolves the {id} path value to a shipment, writing the error
// response when it cannot.
func (h *ShipmentsHandler) loadShipment(w http.ResponseWriter, r *http.Request) (*model.Shipment, bool) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid shipment id")
		return nil, false
	}

	shipment, err := store.GetShipment(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get shipment")
		return nil, false
	}
	if shipment == nil {
		jsonError(w, http.StatusNotFound, "shipment not found")
		return nil, false
	}
	return shipment, true
}

func (h *ShipmentsHandler) loadItem(w http.ResponseWriter, r *http.Request) (*model.ShipmentItem, bool) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid shipment item id")
		return nil, false
	}

	item, err := store.GetShipmentItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get shipment item")
		return nil, false
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "shipment item not found")
		return nil, false
	}
	return item, true
}

func parseShipmentFilter(q url.Values) (model.ShipmentFilter, error) {
	var f model.ShipmentFilter
	var err error

	ids := []struct {
		key string
		dst *int64
	}{
		{"vendor_id", &f.VendorID},
		{"warehouse_id", &f.WarehouseID},
		{"country_id", &f.CountryID},
		{"state_province_id", &f.StateProvinceID},
		{"order_id", &f.OrderID},
	}
	for _, id := range ids {
		if *id.dst, err = queryInt64(q, id.key); err != nil {
			return f, fmt.Errorf("invalid %s", id.key)
		}
	}

	f.County = q.Get("county")
	f.City = q.Get("city")
	f.TrackingNumber = q.Get("tracking_number")

	if f.NotShipped, err = queryBool(q, "not_shipped"); err != nil {
		return f, fmt.Errorf("invalid not_shipped")
	}
	if f.NotDelivered, err = queryBool(q, "not_delivered"); err != nil {
		return f, fmt.Errorf("invalid not_delivered")
	}

	if f.CreatedFrom, err = queryTime(q, "created_from", false); err != nil {
		return f, fmt.Errorf("invalid created_from")
	}
	if f.CreatedTo, err = queryTime(q, "created_to", true); err != nil {
		return f, fmt.Errorf("invalid created_to")
	}
	return f, nil
}

func queryInt(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func queryInt64(q url.Values, key string) (int64, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func queryBool(q url.Values, key string) (bool, error) {
	v := q.Get(key)
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}

// queryTime parses an RFC 3339 timestamp or a plain date. A plain date used
// as an upper bound covers the whole day.
func queryTime(q url.Values, key string, endOfDay bool) (*time.Time, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
