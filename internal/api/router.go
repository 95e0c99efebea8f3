package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/trgovina/internal/attributes"
	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/shipping"
)

// Options carries the collaborators of the API beyond the database.
type Options struct {
	Shipping          shipping.Registry
	Pickup            shipping.Registry
	Text              attributes.TextFormatter
	DefaultLanguageID int64
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	shipmentsHandler := &ShipmentsHandler{
		DB:       db,
		Trackers: &shipping.Resolver{DB: db, Shipping: opts.Shipping, Pickup: opts.Pickup},
	}
	ordersHandler := &OrdersHandler{DB: db}
	usersHandler := &UsersHandler{DB: db}
	attributesHandler := &AttributesHandler{
		DB:                db,
		Text:              opts.Text,
		DefaultLanguageID: opts.DefaultLanguageID,
	}

	authMW := AuthMiddleware(jwtSecret, db)
	requireManager := RequireRole(model.RoleManager)
	requireAdmin := RequireRole(model.RoleAdmin)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Shipments: read (all roles), write (manager+).
	mux.Handle("GET /api/shipments", authMW(http.HandlerFunc(shipmentsHandler.List)))
	mux.Handle("POST /api/shipments", authMW(requireManager(http.HandlerFunc(shipmentsHandler.Create))))
	mux.Handle("GET /api/shipments/{id}", authMW(http.HandlerFunc(shipmentsHandler.Get)))
	mux.Handle("PUT /api/shipments/{id}", authMW(requireManager(http.HandlerFunc(shipmentsHandler.Update))))
	mux.Handle("DELETE /api/shipments/{id}", authMW(requireManager(http.HandlerFunc(shipmentsHandler.Delete))))
	mux.Handle("GET /api/shipments/{id}/tracking", authMW(http.HandlerFunc(shipmentsHandler.Tracking)))

	// Shipment items.
	mux.Handle("GET /api/shipments/{id}/items", authMW(http.HandlerFunc(shipmentsHandler.ListItems)))
	mux.Handle("POST /api/shipments/{id}/items", authMW(requireManager(http.HandlerFunc(shipmentsHandler.CreateItem))))
	mux.Handle("PUT /api/shipment-items/{id}", authMW(requireManager(http.HandlerFunc(shipmentsHandler.UpdateItem))))
	mux.Handle("DELETE /api/shipment-items/{id}", authMW(requireManager(http.HandlerFunc(shipmentsHandler.DeleteItem))))

	// Orders and products.
	mux.Handle("GET /api/orders/{id}/shipments", authMW(http.HandlerFunc(ordersHandler.Shipments)))
	mux.Handle("GET /api/products/{id}/in-transit", authMW(http.HandlerFunc(ordersHandler.InTransit)))

	// Attribute formatting.
	mux.Handle("POST /api/attributes/{kind}/format", authMW(http.HandlerFunc(attributesHandler.Format)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	return mux
}
