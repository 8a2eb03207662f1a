// Package ecommerce contains the storefront platform adapter implementing
// the integration.StorefrontGateway capability over the Shopify Admin API.
package ecommerce

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration validation errors
var (
	ErrShopifyConfigMissingDomain = errors.New("shopify: store domain is required")
	ErrShopifyConfigMissingToken  = errors.New("shopify: access token is required")
)

// locationPlaceholder is the sentinel value operators leave in templates;
// it is treated the same as an unset location id.
const locationPlaceholder = "########"

// defaultAPIVersion is the Shopify Admin API version used when none is configured
const defaultAPIVersion = "2024-10"

// ShopifyConfig holds the Shopify Admin API connection settings
type ShopifyConfig struct {
	StoreDomain string // e.g. "my-shop.myshopify.com"
	APIVersion  string
	AccessToken string
	LocationID  string // optional pre-configured inventory location id

	// APIBaseURL overrides the derived base URL. Used by tests; when empty
	// it is derived from StoreDomain and APIVersion.
	APIBaseURL string

	// TimeoutSeconds bounds every request to the Shopify API
	TimeoutSeconds int
}

// Validate checks required fields and fills in defaults
func (c *ShopifyConfig) Validate() error {
	c.StoreDomain = normalizeDomain(c.StoreDomain)
	if c.StoreDomain == "" && c.APIBaseURL == "" {
		return ErrShopifyConfigMissingDomain
	}
	if c.AccessToken == "" {
		return ErrShopifyConfigMissingToken
	}
	if c.APIVersion == "" {
		c.APIVersion = defaultAPIVersion
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = fmt.Sprintf("https://%s/admin/api/%s", c.StoreDomain, c.APIVersion)
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 20
	}
	return nil
}

// HasConfiguredLocation reports whether a usable location id was configured
func (c *ShopifyConfig) HasConfiguredLocation() bool {
	id := strings.TrimSpace(c.LocationID)
	return id != "" && id != locationPlaceholder
}

func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/")
}
