// Package shipping resolves the carrier tracker responsible for a shipment.
package shipping

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/erazemk/trgovina/internal/model"
	"github.com/erazemk/trgovina/internal/store"
)

// Tracker answers tracking queries for a carrier.
type Tracker interface {
	// TrackingURL returns the public tracking page of a shipment, or "" if
	// the carrier has none.
	TrackingURL(ctx context.Context, trackingNumber string) (string, error)
	// ShipmentEvents returns the carrier's scan history of a shipment.
	ShipmentEvents(ctx context.Context, trackingNumber string) ([]model.ShipmentEvent, error)
}

// Provider is a shipping-rate or pickup-point provider. ShipmentTracker may
// return nil when the provider does not support tracking.
type Provider interface {
	SystemName() string
	ShipmentTracker() Tracker
}

// Registry holds providers by system name.
type Registry map[string]Provider

// NewRegistry returns a registry of the given providers.
func NewRegistry(providers ...Provider) Registry {
	r := make(Registry, len(providers))
	for _, p := range providers {
		r[p.SystemName()] = p
	}
	return r
}

// Lookup returns the provider with the given system name, or nil.
func (r Registry) Lookup(systemName string) Provider {
	if r == nil {
		return nil
	}
	return r[systemName]
}

// Resolver finds the tracker of a shipment through the order's shipping
// method. Pickup orders resolve through the pickup registry.
type Resolver struct {
	DB       *sql.DB
	Shipping Registry
	Pickup   Registry
}

// TrackerFor returns the tracker of a shipment. It returns nil when the
// order, the provider or its tracker is missing.
func (r *Resolver) TrackerFor(ctx context.Context, s *model.Shipment) (Tracker, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: shipment is nil", store.ErrInvalidArgument)
	}

	order, err := store.GetOrder(ctx, r.DB, s.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, nil
	}

	registry := r.Shipping
	if order.PickupInStore {
		registry = r.Pickup
	}
	p := registry.Lookup(order.ShippingMethod)
	if p == nil {
		return nil, nil
	}
	return p.ShipmentTracker(), nil
}

// URLProvider is a provider whose tracker links to a carrier page built from
// a URL template. The template's {tracking_number} placeholder is replaced by
// the escaped tracking number.
type URLProvider struct {
	Name        string
	URLTemplate string
}

// SystemName implements Provider.
func (p *URLProvider) SystemName() string {
	return p.Name
}

// ShipmentTracker implements Provider. Providers without a template have no
// tracker.
func (p *URLProvider) ShipmentTracker() Tracker {
	if p.URLTemplate == "" {
		return nil
	}
	return urlTracker{template: p.URLTemplate}
}

const trackingNumberPlaceholder = "{tracking_number}"

type urlTracker struct {
	template string
}

func (t urlTracker) TrackingURL(_ context.Context, trackingNumber string) (string, error) {
	if trackingNumber == "" {
		return "", nil
	}
	return strings.ReplaceAll(t.template, trackingNumberPlaceholder, url.QueryEscape(trackingNumber)), nil
}

// ShipmentEvents returns no events; template trackers only link out.
func (t urlTracker) ShipmentEvents(context.Context, string) ([]model.ShipmentEvent, error) {
	return nil, nil
}
