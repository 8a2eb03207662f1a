package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billsync/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the Shopify API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ShopifyAdapter implements integration.StorefrontGateway over the Shopify
// Admin REST API.
type ShopifyAdapter struct {
	config     *ShopifyConfig
	httpClient *http.Client
}

// NewShopifyAdapter creates a new Shopify adapter with the given configuration
func NewShopifyAdapter(config *ShopifyConfig) (*ShopifyAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ShopifyAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ResolveOrder resolves an order by display reference or numeric id.
// A reference with a leading '#' is resolved via a lookup-by-name query
// limited to one result; anything else is stripped to digits and resolved
// via direct lookup. A reported no-match returns (nil, nil), not an error.
func (a *ShopifyAdapter) ResolveOrder(ctx context.Context, ref string) (*integration.Order, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, integration.ErrInvalidOrderRef
	}

	if strings.HasPrefix(ref, "#") {
		query := url.Values{}
		query.Set("name", ref)
		query.Set("status", "any")
		query.Set("limit", "1")

		status, body, err := a.get(ctx, "/orders.json", query)
		if err != nil {
			return nil, err
		}
		if status >= 400 {
			return nil, integration.NewUpstreamError("shopify", status, string(body))
		}
		var resp shopifyOrdersResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("shopify: failed to parse orders response: %w", err)
		}
		if len(resp.Orders) == 0 {
			return nil, nil
		}
		return &resp.Orders[0], nil
	}

	id := digitsOnly(ref)
	if id == "" {
		return nil, integration.ErrInvalidOrderRef
	}

	status, body, err := a.get(ctx, "/orders/"+id+".json", nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status >= 400 {
		return nil, integration.NewUpstreamError("shopify", status, string(body))
	}
	var resp shopifyOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse order response: %w", err)
	}
	if resp.Order == nil {
		return nil, nil
	}
	return resp.Order, nil
}

// ResolveLocation returns the inventory location for stock writes: the
// configured id when present and not the placeholder sentinel, otherwise the
// first location the storefront reports.
func (a *ShopifyAdapter) ResolveLocation(ctx context.Context) (int64, error) {
	if a.config.HasConfiguredLocation() {
		id, err := strconv.ParseInt(strings.TrimSpace(a.config.LocationID), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: configured location id %q is not numeric", integration.ErrLocationNotConfigured, a.config.LocationID)
		}
		return id, nil
	}

	status, body, err := a.get(ctx, "/locations.json", nil)
	if err != nil {
		return 0, err
	}
	if status >= 400 {
		return 0, integration.NewUpstreamError("shopify", status, string(body))
	}
	var resp shopifyLocationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("shopify: failed to parse locations response: %w", err)
	}
	if len(resp.Locations) == 0 {
		return 0, integration.ErrLocationNotConfigured
	}
	return resp.Locations[0].ID, nil
}

// ListRecentVariants lists up to limit recently-seen variants. Variants with
// blank SKUs are retained; filtering is the caller's responsibility.
func (a *ShopifyAdapter) ListRecentVariants(ctx context.Context, limit int) ([]integration.Variant, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	status, body, err := a.get(ctx, "/variants.json", query)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, integration.NewUpstreamError("shopify", status, string(body))
	}
	var resp shopifyVariantsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("shopify: failed to parse variants response: %w", err)
	}

	variants := make([]integration.Variant, 0, len(resp.Variants))
	for _, v := range resp.Variants {
		variants = append(variants, integration.Variant{
			ID:              v.ID,
			SKU:             v.SKU,
			InventoryItemID: v.InventoryItemID,
		})
	}
	return variants, nil
}

// ResolveInventoryItemID looks up the inventory item id for an exact SKU
// match, first result only. Returns (0, nil) when no variant matches.
func (a *ShopifyAdapter) ResolveInventoryItemID(ctx context.Context, sku string) (int64, error) {
	query := url.Values{}
	query.Set("sku", sku)
	query.Set("limit", "1")

	status, body, err := a.get(ctx, "/variants.json", query)
	if err != nil {
		return 0, err
	}
	if status >= 400 {
		return 0, integration.NewUpstreamError("shopify", status, string(body))
	}
	var resp shopifyVariantsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("shopify: failed to parse variants response: %w", err)
	}
	if len(resp.Variants) == 0 {
		return 0, nil
	}
	return resp.Variants[0].InventoryItemID, nil
}

// SetInventoryLevel overwrites the on-hand quantity for the item at the
// location. This is an authoritative set, not a delta; repeating it with the
// same value is harmless.
func (a *ShopifyAdapter) SetInventoryLevel(ctx context.Context, inventoryItemID, locationID int64, available decimal.Decimal) error {
	payload := shopifyInventorySetRequest{
		LocationID:      locationID,
		InventoryItemID: inventoryItemID,
		Available:       available.IntPart(),
	}

	status, body, err := a.post(ctx, "/inventory_levels/set.json", payload)
	if err != nil {
		return err
	}
	if status >= 400 {
		return integration.NewUpstreamError("shopify", status, string(body))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

func (a *ShopifyAdapter) get(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	return a.do(ctx, http.MethodGet, path, query, nil)
}

func (a *ShopifyAdapter) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("shopify: failed to marshal request: %w", err)
	}
	return a.do(ctx, http.MethodPost, path, nil, data)
}

// do performs one request against the Shopify Admin API. Transport-level
// failures surface as UpstreamError with status 0; HTTP status handling is
// left to the caller since not-found is routinely meaningful.
func (a *ShopifyAdapter) do(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	u := a.config.APIBaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("shopify: failed to create request: %w", err)
	}
	req.Header.Set("X-Shopify-Access-Token", a.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, nil, integration.NewUpstreamError("shopify", 0, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("shopify: failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// digitsOnly strips every non-digit rune from s
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Ensure ShopifyAdapter implements the StorefrontGateway interface
var _ integration.StorefrontGateway = (*ShopifyAdapter)(nil)
