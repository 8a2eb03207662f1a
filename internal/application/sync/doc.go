// Package sync holds the application services that tie the storefront and
// accounting gateways together: manual document issuance, webhook
// authentication and dispatch, and the periodic stock reconciliation pass.
package sync
