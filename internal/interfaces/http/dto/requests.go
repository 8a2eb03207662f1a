// Package dto holds the request and response shapes of the HTTP surface.
package dto

// DocumentActionRequest is the body of POST /actions/document
type DocumentActionRequest struct {
	OrderRef  string `json:"orderRef" binding:"required"`
	Type      string `json:"type"`
	Warehouse string `json:"warehouse"`
}

// CreditActionRequest is the body of POST /actions/credit
type CreditActionRequest struct {
	OrderRef string `json:"orderRef" binding:"required"`
	Reason   string `json:"reason"`
}

// MetaResponse is the body of GET /api/sb/meta
type MetaResponse struct {
	Series     []string `json:"series"`
	Warehouses []string `json:"warehouses"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	OK bool `json:"ok"`
}
