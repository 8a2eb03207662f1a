// Package integration defines the domain model for synchronizing orders and
// inventory between the Shopify storefront and the SmartBill accounting
// provider. It owns the gateway interfaces implemented by the infrastructure
// adapters and the error types shared across the sync pipeline.
package integration
