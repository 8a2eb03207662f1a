package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/integration"
)

// maxResponseSize limits how much of a SmartBill response is read (10MB)
const maxResponseSize = 10 * 1024 * 1024

// SmartBillAdapter implements billing.AccountingGateway against the
// SmartBill cloud API
type SmartBillAdapter struct {
	config     *SmartBillConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewSmartBillAdapter creates a SmartBill API adapter
func NewSmartBillAdapter(config *SmartBillConfig) (*SmartBillAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SmartBillAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		now: time.Now,
	}, nil
}

// ListSeries returns the invoice numbering series configured in SmartBill.
// Entries without a usable name are dropped.
func (a *SmartBillAdapter) ListSeries(ctx context.Context) ([]string, error) {
	return a.listNamed(ctx, "/api/series")
}

// ListWarehouses returns the warehouse names configured in SmartBill
func (a *SmartBillAdapter) ListWarehouses(ctx context.Context) ([]string, error) {
	return a.listNamed(ctx, "/api/warehouses")
}

func (a *SmartBillAdapter) listNamed(ctx context.Context, path string) ([]string, error) {
	query := url.Values{}
	query.Set("companyVatCode", a.config.VATCode)

	status, body, err := a.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, integration.NewUpstreamError("smartbill", status, string(body))
	}

	var items []smartbillNamedItem
	if err := parseCollection(body, &items); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		if name := item.displayName(); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// CreateDocument issues an invoice or proforma from the order. Proforma
// routes to its own endpoint; every other type is issued as an invoice.
func (a *SmartBillAdapter) CreateDocument(ctx context.Context, order *integration.Order, docType billing.DocumentType, warehouse, series string, sendEmail bool) (*billing.DocumentResult, error) {
	req := billing.BuildDocumentRequest(order, docType, a.config.VATCode, warehouse, series, sendEmail, a.now())

	path := "/api/invoice"
	if docType.Normalize() == billing.DocumentTypeProforma {
		path = "/api/proforma"
	}
	return a.createDocument(ctx, path, toWireRequest(req))
}

// CreateCreditNote issues a credit note reversing the order's lines
func (a *SmartBillAdapter) CreateCreditNote(ctx context.Context, order *integration.Order, warehouse, series, reason string) (*billing.DocumentResult, error) {
	req := billing.BuildCreditNoteRequest(order, a.config.VATCode, warehouse, series, reason, a.now())
	return a.createDocument(ctx, "/api/creditnote", toCreditWireRequest(req))
}

func (a *SmartBillAdapter) createDocument(ctx context.Context, path string, payload any) (*billing.DocumentResult, error) {
	status, body, err := a.post(ctx, path, payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, integration.NewUpstreamError("smartbill", status, string(body))
	}

	var resp smartbillDocumentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("smartbill: failed to parse document response: %w", err)
	}
	return &billing.DocumentResult{
		Number: resp.documentNumber(),
		PDFURL: resp.PDFURL,
	}, nil
}

// FetchStock returns current stock for the given SKUs. An empty input yields
// an empty snapshot without touching the network. Codes the provider reports
// beyond the requested set are discarded.
func (a *SmartBillAdapter) FetchStock(ctx context.Context, skus []string) (integration.StockSnapshot, error) {
	snapshot := make(integration.StockSnapshot, len(skus))
	if len(skus) == 0 {
		return snapshot, nil
	}

	payload := smartbillStockRequest{
		CompanyVATCode: a.config.VATCode,
		Codes:          skus,
	}
	status, body, err := a.post(ctx, "/api/stock", payload)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, integration.NewUpstreamError("smartbill", status, string(body))
	}

	var items []smartbillStockItem
	if err := parseCollection(body, &items); err != nil {
		return nil, err
	}

	requested := make(map[string]struct{}, len(skus))
	for _, sku := range skus {
		requested[sku] = struct{}{}
	}
	for _, item := range items {
		if _, ok := requested[item.Code]; ok {
			snapshot[item.Code] = item.Stock
		}
	}
	return snapshot, nil
}

// ---------------------------
// HTTP helpers
// ---------------------------

func (a *SmartBillAdapter) get(ctx context.Context, path string, query url.Values) (int, []byte, error) {
	return a.do(ctx, http.MethodGet, path, query, nil)
}

func (a *SmartBillAdapter) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("smartbill: failed to marshal request: %w", err)
	}
	return a.do(ctx, http.MethodPost, path, nil, data)
}

// do performs one request against the SmartBill API. Transport-level
// failures surface as UpstreamError with status 0.
func (a *SmartBillAdapter) do(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
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
		return 0, nil, fmt.Errorf("smartbill: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, nil, integration.NewUpstreamError("smartbill", 0, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("smartbill: failed to read response: %w", err)
	}
	return resp.StatusCode, data, nil
}

// Ensure SmartBillAdapter implements the AccountingGateway interface
var _ billing.AccountingGateway = (*SmartBillAdapter)(nil)
