package integration

import (
	"context"

	"github.com/shopspring/decimal"
)

// Variant is a storefront product variant as returned by the recent-variants
// listing. SKUs may be blank; filtering is the caller's responsibility.
type Variant struct {
	ID              int64  `json:"id"`
	SKU             string `json:"sku"`
	InventoryItemID int64  `json:"inventory_item_id"`
}

// StockSnapshot maps product code (SKU) to available quantity as of one
// reconciliation pass. A code absent from the snapshot means "no data",
// not zero.
type StockSnapshot map[string]decimal.Decimal

// StorefrontGateway is the typed capability over the e-commerce platform.
type StorefrontGateway interface {
	// ResolveOrder resolves an order by display reference (leading '#') or
	// numeric id. Returns (nil, nil) when the storefront reports no match.
	ResolveOrder(ctx context.Context, ref string) (*Order, error)

	// ResolveLocation returns the inventory location id used for all writes
	// within one reconciliation pass. Returns ErrLocationNotConfigured when
	// neither configuration nor the storefront yields a usable id.
	ResolveLocation(ctx context.Context) (int64, error)

	// ListRecentVariants lists up to limit recently-seen variants. Blank
	// SKUs are retained in the result.
	ListRecentVariants(ctx context.Context, limit int) ([]Variant, error)

	// ResolveInventoryItemID looks up the inventory item id for an exact SKU
	// match, first result only. Returns (0, nil) when no variant matches.
	ResolveInventoryItemID(ctx context.Context, sku string) (int64, error)

	// SetInventoryLevel overwrites the on-hand quantity for the item at the
	// location. Safe to repeat with the same value.
	SetInventoryLevel(ctx context.Context, inventoryItemID, locationID int64, available decimal.Decimal) error
}
