package model

// Product is a catalog product as far as shipping is concerned.
type Product struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	VendorID              int64  `json:"vendor_id"`
	ManageInventory       string `json:"manage_inventory"`
	UseMultipleWarehouses bool   `json:"use_multiple_warehouses"`
}

// Inventory management methods.
const (
	ManageInventoryNone       = "none"
	ManageInventoryStock      = "stock"
	ManageInventoryAttributes = "attributes"
)

// TracksWarehouseStock reports whether stock is tracked per warehouse.
func (p *Product) TracksWarehouseStock() bool {
	return p.ManageInventory == ManageInventoryStock && p.UseMultipleWarehouses
}
