package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// OrdersHandler handles order and product shipment queries.
type OrdersHandler struct {
	DB *sql.DB
}

type inTransitResponse struct {
	ProductID   int64 `json:"product_id"`
	WarehouseID int64 `json:"warehouse_id,omitempty"`
	Quantity    int   `json:"quantity"`
}

// Shipments handles GET /api/orders/{id}/shipments.
func (h *OrdersHandler) Shipments(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var shipped *bool
	if r.URL.Query().Has("shipped") {
		v, err := queryBool(r.URL.Query(), "shipped")
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid shipped")
			return
		}
		shipped = &v
	}

	order, err := store.GetOrder(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get order")
		return
	}
	if order == nil || order.Deleted {
		jsonError(w, http.StatusNotFound, "order not found")
		return
	}

	shipments, err := store.ListOrderShipments(r.Context(), h.DB, order.ID, shipped)
	if err != nil {
		storeError(w, err, "failed to list order shipments")
		return
	}
	if shipments == nil {
		shipments = []model.Shipment{}
	}
	jsonResponse(w, http.StatusOK, shipments)
}

// InTransit handles GET /api/products/{id}/in-transit.
func (h *OrdersHandler) InTransit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	q := r.URL.Query()
	warehouseID, err := queryInt64(q, "warehouse_id")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid warehouse_id")
		return
	}
	ignoreShipped, err := queryBool(q, "ignore_shipped")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid ignore_shipped")
		return
	}
	ignoreDelivered, err := queryBool(q, "ignore_delivered")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid ignore_delivered")
		return
	}

	product, err := store.GetProduct(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err, "failed to get product")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "product not found")
		return
	}

	qty, err := store.QuantityInShipments(r.Context(), h.DB, product, warehouseID, ignoreShipped, ignoreDelivered)
	if err != nil {
		storeError(w, err, "failed to sum quantity in shipments")
		return
	}
	jsonResponse(w, http.StatusOK, inTransitResponse{ProductID: product.ID, WarehouseID: warehouseID, Quantity: qty})
}
