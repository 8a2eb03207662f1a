package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/billsync/backend/internal/domain/integration"
)

// Fixed line defaults the invoicing provider expects for storefront orders.
const (
	defaultMeasuringUnit = "buc"
	defaultCurrency      = "RON"
	fallbackClientName   = "Client Shopify"
)

// defaultVATRate is the fixed VAT rate applied to every line (19%)
var defaultVATRate = decimal.NewFromInt(19)

// BuildClient derives the client block from an order. Name resolution order:
// customer first+last name, shipping-address first+last name, customer
// email, then a literal fallback label. Blank candidates fall through.
func BuildClient(order *integration.Order) ClientBlock {
	name := joinName(order.Customer.FirstName, order.Customer.LastName)
	if name == "" {
		name = joinName(order.ShippingAddress.FirstName, order.ShippingAddress.LastName)
	}
	if name == "" {
		name = strings.TrimSpace(order.Customer.Email)
	}
	if name == "" {
		name = fallbackClientName
	}

	addr := make([]string, 0, 2)
	for _, part := range []string{order.ShippingAddress.Address1, order.ShippingAddress.Address2} {
		if strings.TrimSpace(part) != "" {
			addr = append(addr, part)
		}
	}

	return ClientBlock{
		Name:       name,
		Email:      order.Customer.Email,
		IsVATPayer: false,
		Address:    strings.Join(addr, ", "),
		City:       order.ShippingAddress.City,
		County:     order.ShippingAddress.Province,
		Country:    order.ShippingAddress.CountryCode,
	}
}

// BuildLines maps order line items to document lines. Every line carries the
// fixed unit of measure and VAT rate; currency comes from the order or the
// default; the product code falls back to the variant id when the SKU is
// blank. An order with no line items yields an empty, non-nil slice.
func BuildLines(order *integration.Order, warehouse string) []DocumentLine {
	currency := order.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	lines := make([]DocumentLine, 0, len(order.LineItems))
	for _, li := range order.LineItems {
		code := li.SKU
		if code == "" {
			code = strconv.FormatInt(li.VariantID, 10)
		}
		lines = append(lines, DocumentLine{
			Name:              li.Title,
			Code:              code,
			MeasuringUnitName: defaultMeasuringUnit,
			Currency:          currency,
			IsDiscount:        false,
			Quantity:          li.Quantity,
			Price:             li.Price,
			VATRate:           defaultVATRate,
			WarehouseName:     warehouse,
		})
	}
	return lines
}

// NegateLines returns a copy of lines with every quantity replaced by the
// negated absolute value, so credit-note quantities are always non-positive
// regardless of input sign.
func NegateLines(lines []DocumentLine) []DocumentLine {
	out := make([]DocumentLine, len(lines))
	for i, l := range lines {
		l.Quantity = l.Quantity.Abs().Neg()
		out[i] = l
	}
	return out
}

// BuildDocumentRequest builds the invoice/proforma request payload for an
// order. now supplies the issue date so callers and tests control time.
func BuildDocumentRequest(order *integration.Order, docType DocumentType, vatCode, warehouse, series string, sendEmail bool, now time.Time) DocumentRequest {
	return DocumentRequest{
		CompanyVATCode: vatCode,
		SeriesName:     series,
		IssueDate:      now.Format("2006-01-02"),
		IsDraft:        false,
		SendEmail:      sendEmail,
		WarehouseName:  warehouse,
		Client:         BuildClient(order),
		Products:       BuildLines(order, warehouse),
		Observations:   fmt.Sprintf("Shopify %s • %s • %s", order.Ref(), docType.Normalize(), warehouse),
	}
}

// BuildCreditNoteRequest builds the credit-note request payload for an
// order. Line quantities are negated and floored at the absolute value.
func BuildCreditNoteRequest(order *integration.Order, vatCode, warehouse, series, reason string, now time.Time) DocumentRequest {
	return DocumentRequest{
		CompanyVATCode: vatCode,
		SeriesName:     series,
		IssueDate:      now.Format("2006-01-02"),
		WarehouseName:  warehouse,
		Client:         BuildClient(order),
		Products:       NegateLines(BuildLines(order, warehouse)),
		Observations:   fmt.Sprintf("Shopify %s • credit • %s", order.Ref(), reason),
	}
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
