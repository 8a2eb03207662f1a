package integration

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Customer holds the customer identity attached to a storefront order
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ShippingAddress holds the shipping address attached to a storefront order
type ShippingAddress struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	Address2    string `json:"address2"`
	City        string `json:"city"`
	Province    string `json:"province"`
	CountryCode string `json:"country_code"`
	Zip         string `json:"zip"`
}

// LineItem is a single ordered line on a storefront order.
// Price arrives from Shopify as a decimal string.
type LineItem struct {
	Title     string          `json:"title"`
	SKU       string          `json:"sku"`
	VariantID int64           `json:"variant_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is the storefront order representation this system reads.
// It is owned by the storefront and never written back.
type Order struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"` // display reference, e.g. "#1001"
	Currency        string          `json:"currency"`
	Customer        Customer        `json:"customer"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	LineItems       []LineItem      `json:"line_items"`
}

// Ref returns the human-facing reference for the order, falling back to the
// numeric ID when the display name is blank.
func (o *Order) Ref() string {
	if name := strings.TrimSpace(o.Name); name != "" {
		return name
	}
	return strconv.FormatInt(o.ID, 10)
}
