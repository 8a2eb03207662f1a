// Package billing defines the accounting document model and the pure
// translation from a storefront order to the document request shape the
// invoicing provider accepts.
package billing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/billsync/backend/internal/domain/integration"
)

// DocumentType identifies the kind of accounting document to issue
type DocumentType string

const (
	// DocumentTypeInvoice is a final invoice
	DocumentTypeInvoice DocumentType = "invoice"
	// DocumentTypeProforma is a proforma invoice
	DocumentTypeProforma DocumentType = "proforma"
	// DocumentTypeCreditNote is a credit note reversing an invoice
	DocumentTypeCreditNote DocumentType = "creditnote"
)

// Normalize maps unknown document types to invoice, matching the provider
// routing: only proforma gets special treatment.
func (t DocumentType) Normalize() DocumentType {
	if t == DocumentTypeProforma {
		return DocumentTypeProforma
	}
	if t == DocumentTypeCreditNote {
		return DocumentTypeCreditNote
	}
	return DocumentTypeInvoice
}

// ClientBlock is the client identity section of a document request
type ClientBlock struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	IsVATPayer bool   `json:"isVATPayer"`
	VATCode    string `json:"vatCode,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	County     string `json:"county,omitempty"`
	Country    string `json:"country,omitempty"`
}

// DocumentLine is a single product line on a document request
type DocumentLine struct {
	Name              string          `json:"name"`
	Code              string          `json:"code"`
	MeasuringUnitName string          `json:"measuringUnitName"`
	Currency          string          `json:"currency"`
	IsDiscount        bool            `json:"isDiscount"`
	Quantity          decimal.Decimal `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	VATRate           decimal.Decimal `json:"vatRate"`
	WarehouseName     string          `json:"warehouseName"`
}

// DocumentRequest is the ephemeral, per-call payload sent to the invoicing
// provider. Built fresh for every issuance; never persisted.
type DocumentRequest struct {
	CompanyVATCode string         `json:"companyVatCode"`
	SeriesName     string         `json:"seriesName"`
	IssueDate      string         `json:"issueDate"` // calendar date, 2006-01-02
	IsDraft        bool           `json:"isDraft"`
	SendEmail      bool           `json:"sendEmail"`
	WarehouseName  string         `json:"warehouseName"`
	Client         ClientBlock    `json:"client"`
	Products       []DocumentLine `json:"products"`
	Observations   string         `json:"observations"`
}

// DocumentResult is the provider-assigned outcome of one issuance
type DocumentResult struct {
	Number string `json:"number"`
	PDFURL string `json:"pdfUrl,omitempty"`
}

// AccountingGateway is the typed capability over the invoicing provider.
type AccountingGateway interface {
	// ListSeries returns the invoice numbering series known to the provider.
	ListSeries(ctx context.Context) ([]string, error)

	// ListWarehouses returns the warehouse names known to the provider.
	ListWarehouses(ctx context.Context) ([]string, error)

	// CreateDocument issues an invoice or proforma from the order. Any type
	// other than proforma routes to invoice. Not idempotent: the caller must
	// prevent duplicate invocation for the same order and type.
	CreateDocument(ctx context.Context, order *integration.Order, docType DocumentType, warehouse, series string, sendEmail bool) (*DocumentResult, error)

	// CreateCreditNote issues a credit note from the order with all line
	// quantities forced non-positive.
	CreateCreditNote(ctx context.Context, order *integration.Order, warehouse, series, reason string) (*DocumentResult, error)

	// FetchStock returns current stock levels for the given SKUs. An empty
	// input yields an empty snapshot without a network call. Codes the
	// provider does not report are absent from the snapshot.
	FetchStock(ctx context.Context, skus []string) (integration.StockSnapshot, error)
}
