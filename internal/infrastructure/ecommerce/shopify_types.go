package ecommerce

import (
	"github.com/billsync/backend/internal/domain/integration"
)

// shopifyOrdersResponse is the envelope of GET /orders.json
type shopifyOrdersResponse struct {
	Orders []integration.Order `json:"orders"`
}

// shopifyOrderResponse is the envelope of GET /orders/{id}.json
type shopifyOrderResponse struct {
	Order *integration.Order `json:"order"`
}

// shopifyLocation is one entry of GET /locations.json
type shopifyLocation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// shopifyLocationsResponse is the envelope of GET /locations.json
type shopifyLocationsResponse struct {
	Locations []shopifyLocation `json:"locations"`
}

// shopifyVariant is one entry of GET /variants.json
type shopifyVariant struct {
	ID              int64  `json:"id"`
	SKU             string `json:"sku"`
	InventoryItemID int64  `json:"inventory_item_id"`
}

// shopifyVariantsResponse is the envelope of GET /variants.json
type shopifyVariantsResponse struct {
	Variants []shopifyVariant `json:"variants"`
}

// shopifyInventorySetRequest is the payload of POST /inventory_levels/set.json.
// Shopify expects a plain integer for available.
type shopifyInventorySetRequest struct {
	LocationID      int64 `json:"location_id"`
	InventoryItemID int64 `json:"inventory_item_id"`
	Available       int64 `json:"available"`
}
