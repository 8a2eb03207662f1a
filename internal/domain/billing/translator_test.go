package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billsync/backend/internal/domain/integration"
)

func testOrder() *integration.Order {
	return &integration.Order{
		ID:       450789469,
		Name:     "#1001",
		Currency: "RON",
		Customer: integration.Customer{
			FirstName: "Ion",
			LastName:  "Popescu",
			Email:     "ion@example.com",
		},
		ShippingAddress: integration.ShippingAddress{
			FirstName:   "Ion",
			LastName:    "Popescu",
			Address1:    "Str. Exemplu 1",
			Address2:    "Ap. 3",
			City:        "Bucuresti",
			Province:    "Bucuresti",
			CountryCode: "RO",
		},
		LineItems: []integration.LineItem{
			{Title: "Tricou", SKU: "TS-001", VariantID: 111, Quantity: decimal.NewFromInt(2), Price: decimal.RequireFromString("49.90")},
			{Title: "Sapca", SKU: "", VariantID: 222, Quantity: decimal.NewFromInt(1), Price: decimal.RequireFromString("29.00")},
		},
	}
}

func TestBuildClient_NameResolutionOrder(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*integration.Order)
		wantName string
	}{
		{
			name:     "customer name preferred",
			mutate:   func(o *integration.Order) {},
			wantName: "Ion Popescu",
		},
		{
			name: "falls back to shipping address name",
			mutate: func(o *integration.Order) {
				o.Customer.FirstName = ""
				o.Customer.LastName = ""
				o.ShippingAddress.FirstName = "Maria"
				o.ShippingAddress.LastName = "Ionescu"
			},
			wantName: "Maria Ionescu",
		},
		{
			name: "blank-only names fall through to email",
			mutate: func(o *integration.Order) {
				o.Customer.FirstName = "  "
				o.Customer.LastName = ""
				o.ShippingAddress.FirstName = ""
				o.ShippingAddress.LastName = "   "
			},
			wantName: "ion@example.com",
		},
		{
			name: "everything blank uses fallback label",
			mutate: func(o *integration.Order) {
				o.Customer = integration.Customer{}
				o.ShippingAddress.FirstName = ""
				o.ShippingAddress.LastName = ""
			},
			wantName: "Client Shopify",
		},
		{
			name: "partial name is trimmed",
			mutate: func(o *integration.Order) {
				o.Customer.FirstName = "Ana"
				o.Customer.LastName = ""
			},
			wantName: "Ana",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := testOrder()
			tt.mutate(order)
			client := BuildClient(order)
			assert.Equal(t, tt.wantName, client.Name)
		})
	}
}

func TestBuildClient_Address(t *testing.T) {
	client := BuildClient(testOrder())
	assert.Equal(t, "Str. Exemplu 1, Ap. 3", client.Address)
	assert.Equal(t, "Bucuresti", client.City)
	assert.Equal(t, "RO", client.Country)
	assert.False(t, client.IsVATPayer)

	order := testOrder()
	order.ShippingAddress.Address2 = ""
	assert.Equal(t, "Str. Exemplu 1", BuildClient(order).Address)
}

func TestBuildLines(t *testing.T) {
	order := testOrder()
	lines := BuildLines(order, "Magazin 2")

	require.Len(t, lines, 2)
	assert.Equal(t, "TS-001", lines[0].Code)
	// Blank SKU falls back to variant id
	assert.Equal(t, "222", lines[1].Code)
	for _, l := range lines {
		assert.Equal(t, "buc", l.MeasuringUnitName)
		assert.Equal(t, "RON", l.Currency)
		assert.True(t, l.VATRate.Equal(decimal.NewFromInt(19)))
		assert.Equal(t, "Magazin 2", l.WarehouseName)
		assert.False(t, l.IsDiscount)
	}
}

func TestBuildLines_DefaultCurrency(t *testing.T) {
	order := testOrder()
	order.Currency = ""
	lines := BuildLines(order, "Magazin 2")
	require.Len(t, lines, 2)
	assert.Equal(t, "RON", lines[0].Currency)
}

func TestBuildLines_EmptyOrder(t *testing.T) {
	order := testOrder()
	order.LineItems = nil
	lines := BuildLines(order, "Magazin 2")
	require.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestBuildLines_Deterministic(t *testing.T) {
	order := testOrder()
	first := BuildLines(order, "Magazin 2")
	second := BuildLines(order, "Magazin 2")
	assert.Equal(t, first, second)
}

func TestNegateLines_AlwaysNonPositive(t *testing.T) {
	order := testOrder()
	// Arbitrary input signs: refund payloads may already carry negatives
	order.LineItems[0].Quantity = decimal.NewFromInt(-3)
	order.LineItems[1].Quantity = decimal.NewFromInt(5)

	invoice := BuildLines(order, "Magazin 2")
	credit := NegateLines(invoice)

	require.Len(t, credit, len(invoice))
	for i, l := range credit {
		assert.True(t, l.Quantity.LessThanOrEqual(decimal.Zero), "line %d quantity %s", i, l.Quantity)
		assert.True(t, l.Quantity.Abs().Equal(invoice[i].Quantity.Abs()), "magnitude preserved for line %d", i)
	}
}

func TestBuildDocumentRequest(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	req := BuildDocumentRequest(testOrder(), DocumentTypeInvoice, "RO123456", "Magazin 2", "SB", true, now)

	assert.Equal(t, "RO123456", req.CompanyVATCode)
	assert.Equal(t, "SB", req.SeriesName)
	assert.Equal(t, "2025-03-14", req.IssueDate)
	assert.False(t, req.IsDraft)
	assert.True(t, req.SendEmail)
	assert.Equal(t, "Magazin 2", req.WarehouseName)
	assert.Equal(t, "Shopify #1001 • invoice • Magazin 2", req.Observations)
	assert.Len(t, req.Products, 2)
}

func TestBuildCreditNoteRequest(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	req := BuildCreditNoteRequest(testOrder(), "RO123456", "Magazin 2", "SB", "refund via webhook", now)

	assert.Equal(t, "Shopify #1001 • credit • refund via webhook", req.Observations)
	require.Len(t, req.Products, 2)
	for _, l := range req.Products {
		assert.True(t, l.Quantity.LessThanOrEqual(decimal.Zero))
	}
}

func TestDocumentType_Normalize(t *testing.T) {
	assert.Equal(t, DocumentTypeInvoice, DocumentType("").Normalize())
	assert.Equal(t, DocumentTypeInvoice, DocumentType("bogus").Normalize())
	assert.Equal(t, DocumentTypeProforma, DocumentTypeProforma.Normalize())
	assert.Equal(t, DocumentTypeCreditNote, DocumentTypeCreditNote.Normalize())
}

func TestOrderRef_FallsBackToID(t *testing.T) {
	order := testOrder()
	order.Name = "  "
	assert.Equal(t, "450789469", order.Ref())
}
