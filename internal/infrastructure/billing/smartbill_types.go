package billing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/billsync/backend/internal/domain/billing"
)

// smartbillNamedItem is one entry of a reference-data collection. Series
// responses carry the name under seriesName, warehouses under name.
type smartbillNamedItem struct {
	Name       string `json:"name"`
	SeriesName string `json:"seriesName"`
}

// displayName returns whichever name field the provider populated
func (i smartbillNamedItem) displayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.SeriesName
}

// smartbillItemsEnvelope is the {"items": [...]} collection envelope
type smartbillItemsEnvelope struct {
	Items json.RawMessage `json:"items"`
}

// parseCollection decodes a SmartBill collection response into dst. The API
// is known to answer with two envelope shapes; they are tried in declared
// fallback order:
//  1. {"items": [...]}
//  2. a bare JSON array
//
// An envelope without the items field yields an empty collection, not an
// error.
func parseCollection(data []byte, dst any) error {
	var envelope smartbillItemsEnvelope
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Items == nil {
			// Envelope shape but no collection field: try the bare array
			// before settling on empty.
			if err := json.Unmarshal(data, dst); err == nil {
				return nil
			}
			return nil
		}
		return json.Unmarshal(envelope.Items, dst)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("smartbill: unrecognized collection shape: %w", err)
	}
	return nil
}

// smartbillStockItem is one entry of the stock lookup response
type smartbillStockItem struct {
	Code  string          `json:"code"`
	Stock decimal.Decimal `json:"stock"`
}

// smartbillStockRequest is the payload of POST /api/stock
type smartbillStockRequest struct {
	CompanyVATCode string   `json:"companyVatCode"`
	Codes          []string `json:"codes"`
}

// smartbillDocumentResponse is the outcome of a document creation call.
// Older API versions report the number under numberString.
type smartbillDocumentResponse struct {
	Number       string `json:"number"`
	NumberString string `json:"numberString"`
	PDFURL       string `json:"pdfUrl"`
}

// documentNumber returns whichever number field the provider populated
func (r smartbillDocumentResponse) documentNumber() string {
	if r.Number != "" {
		return r.Number
	}
	return r.NumberString
}

// smartbillLine is the wire shape of one document line. SmartBill expects
// plain JSON numbers, so decimals are converted at the adapter boundary.
type smartbillLine struct {
	Name              string  `json:"name"`
	Code              string  `json:"code"`
	MeasuringUnitName string  `json:"measuringUnitName"`
	Currency          string  `json:"currency"`
	IsDiscount        bool    `json:"isDiscount"`
	Quantity          float64 `json:"quantity"`
	Price             float64 `json:"price"`
	VATRate           float64 `json:"vatRate"`
	WarehouseName     string  `json:"warehouseName"`
}

// smartbillDocumentRequest is the wire shape of an invoice or proforma
// creation payload. SendEmail is always transmitted so a disabled PDF email
// reaches the provider as an explicit false.
type smartbillDocumentRequest struct {
	CompanyVATCode string              `json:"companyVatCode"`
	SeriesName     string              `json:"seriesName"`
	IssueDate      string              `json:"issueDate"`
	IsDraft        bool                `json:"isDraft"`
	SendEmail      bool                `json:"sendEmail"`
	WarehouseName  string              `json:"warehouseName"`
	Client         billing.ClientBlock `json:"client"`
	Products       []smartbillLine     `json:"products"`
	Observations   string              `json:"observations"`
}

// smartbillCreditNoteRequest is the wire shape of a credit-note creation
// payload. Credit notes carry no draft or email flags.
type smartbillCreditNoteRequest struct {
	CompanyVATCode string              `json:"companyVatCode"`
	SeriesName     string              `json:"seriesName"`
	IssueDate      string              `json:"issueDate"`
	WarehouseName  string              `json:"warehouseName"`
	Client         billing.ClientBlock `json:"client"`
	Products       []smartbillLine     `json:"products"`
	Observations   string              `json:"observations"`
}

func toWireLines(products []billing.DocumentLine) []smartbillLine {
	lines := make([]smartbillLine, 0, len(products))
	for _, l := range products {
		lines = append(lines, smartbillLine{
			Name:              l.Name,
			Code:              l.Code,
			MeasuringUnitName: l.MeasuringUnitName,
			Currency:          l.Currency,
			IsDiscount:        l.IsDiscount,
			Quantity:          l.Quantity.InexactFloat64(),
			Price:             l.Price.InexactFloat64(),
			VATRate:           l.VATRate.InexactFloat64(),
			WarehouseName:     l.WarehouseName,
		})
	}
	return lines
}

// toWireRequest converts the domain document request to the wire shape
func toWireRequest(req billing.DocumentRequest) smartbillDocumentRequest {
	return smartbillDocumentRequest{
		CompanyVATCode: req.CompanyVATCode,
		SeriesName:     req.SeriesName,
		IssueDate:      req.IssueDate,
		IsDraft:        req.IsDraft,
		SendEmail:      req.SendEmail,
		WarehouseName:  req.WarehouseName,
		Client:         req.Client,
		Products:       toWireLines(req.Products),
		Observations:   req.Observations,
	}
}

// toCreditWireRequest converts the domain request to the credit-note wire
// shape
func toCreditWireRequest(req billing.DocumentRequest) smartbillCreditNoteRequest {
	return smartbillCreditNoteRequest{
		CompanyVATCode: req.CompanyVATCode,
		SeriesName:     req.SeriesName,
		IssueDate:      req.IssueDate,
		WarehouseName:  req.WarehouseName,
		Client:         req.Client,
		Products:       toWireLines(req.Products),
		Observations:   req.Observations,
	}
}
