package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/integration"
	"github.com/billsync/backend/internal/infrastructure/settings"
	"github.com/billsync/backend/internal/interfaces/http/router"
)

// fakeStorefront implements integration.StorefrontGateway for handler tests
type fakeStorefront struct {
	order        *integration.Order
	resolveErr   error
	resolveCalls int
}

func (f *fakeStorefront) ResolveOrder(ctx context.Context, ref string) (*integration.Order, error) {
	f.resolveCalls++
	return f.order, f.resolveErr
}

func (f *fakeStorefront) ResolveLocation(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeStorefront) ListRecentVariants(ctx context.Context, limit int) ([]integration.Variant, error) {
	return nil, nil
}

func (f *fakeStorefront) ResolveInventoryItemID(ctx context.Context, sku string) (int64, error) {
	return 0, nil
}

func (f *fakeStorefront) SetInventoryLevel(ctx context.Context, inventoryItemID, locationID int64, available decimal.Decimal) error {
	return nil
}

// fakeAccounting implements billing.AccountingGateway for handler tests
type fakeAccounting struct {
	series      []string
	warehouses  []string
	listErr     error
	result      *billing.DocumentResult
	createErr   error
	createCalls int
	creditCalls int
}

func (f *fakeAccounting) ListSeries(ctx context.Context) ([]string, error) {
	return f.series, f.listErr
}

func (f *fakeAccounting) ListWarehouses(ctx context.Context) ([]string, error) {
	return f.warehouses, f.listErr
}

func (f *fakeAccounting) CreateDocument(ctx context.Context, order *integration.Order, docType billing.DocumentType, warehouse, series string, sendEmail bool) (*billing.DocumentResult, error) {
	f.createCalls++
	return f.result, f.createErr
}

func (f *fakeAccounting) CreateCreditNote(ctx context.Context, order *integration.Order, warehouse, series, reason string) (*billing.DocumentResult, error) {
	f.creditCalls++
	return f.result, f.createErr
}

func (f *fakeAccounting) FetchStock(ctx context.Context, skus []string) (integration.StockSnapshot, error) {
	return nil, nil
}

const webhookSecret = "test-webhook-secret"

type testEnv struct {
	engine     *gin.Engine
	storefront *fakeStorefront
	accounting *fakeAccounting
	store      *settings.MemoryStore
}

func newTestEnv(t *testing.T, stored settings.Settings) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		storefront: &fakeStorefront{},
		accounting: &fakeAccounting{},
		store:      settings.NewMemoryStore(stored),
	}
	defaults := syncapp.Defaults{Series: "SB", Warehouse: "Magazin 2"}
	logger := zap.NewNop()

	documents := syncapp.NewDocumentService(env.storefront, env.accounting, env.store, defaults, logger)
	webhooks := syncapp.NewWebhookService(webhookSecret, env.accounting, env.store, defaults, logger)

	env.engine = gin.New()
	router.NewRouter(env.engine).
		Register(NewSystemHandler()).
		Register(NewMetaHandler(env.accounting)).
		Register(NewSettingsHandler(env.store)).
		Register(NewActionsHandler(documents)).
		Register(NewWebhookHandler(webhooks, logger)).
		Setup()
	return env
}

func (e *testEnv) request(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// brokenReader fails on the first read, standing in for a client that drops
// the connection mid-body.
type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, settings.Settings{})
	w := env.request(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestMeta(t *testing.T) {
	t.Run("returns series and warehouses", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})
		env.accounting.series = []string{"SB", "PF"}
		env.accounting.warehouses = []string{"Magazin 2"}

		w := env.request(t, http.MethodGet, "/api/sb/meta", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"series":["SB","PF"],"warehouses":["Magazin 2"]}`, w.Body.String())
	})

	t.Run("upstream failure yields 500 with provider detail", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})
		env.accounting.listErr = integration.NewUpstreamError("smartbill", 401, `{"errorText":"bad token"}`)

		w := env.request(t, http.MethodGet, "/api/sb/meta", "", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "bad token")
	})
}

func TestSettingsEndpoints(t *testing.T) {
	t.Run("merge is partial and returns merged document", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{DefaultWarehouse: "Central"})

		w := env.request(t, http.MethodPost, "/api/settings", `{"defaultSeries":"PF","autoInvoice":true}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			OK       bool              `json:"ok"`
			Settings settings.Settings `json:"settings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.OK)
		assert.Equal(t, "PF", resp.Settings.DefaultSeries)
		assert.Equal(t, "Central", resp.Settings.DefaultWarehouse)
		assert.True(t, resp.Settings.AutoInvoice)
	})

	t.Run("map replace is wholesale", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{WarehouseMap: map[string]string{"old": "gone"}})

		w := env.request(t, http.MethodPost, "/api/map", `{"shop-main":"Magazin 2"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)

		current, err := env.store.Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"shop-main": "Magazin 2"}, current.WarehouseMap)
	})

	t.Run("get returns the stored document", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{DefaultSeries: "SB"})

		w := env.request(t, http.MethodGet, "/api/settings", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"defaultSeries":"SB"`)
	})

	t.Run("admin page served as html", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})
		w := env.request(t, http.MethodGet, "/admin/settings", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "Sync Settings")
	})
}

func TestActionsDocument(t *testing.T) {
	t.Run("empty body rejected without upstream calls", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})

		w := env.request(t, http.MethodPost, "/actions/document", `{}`, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, env.storefront.resolveCalls)
		assert.Equal(t, 0, env.accounting.createCalls)
	})

	t.Run("missing order yields 404", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})

		w := env.request(t, http.MethodPost, "/actions/document", `{"orderRef":"#9999"}`, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, 0, env.accounting.createCalls)
	})

	t.Run("successful issuance returns document payload", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})
		env.storefront.order = &integration.Order{ID: 1, Name: "#1001"}
		env.accounting.result = &billing.DocumentResult{Number: "SB0042", PDFURL: "https://pdf/42"}

		w := env.request(t, http.MethodPost, "/actions/document", `{"orderRef":"#1001","type":"proforma"}`, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"docType":"proforma","number":"SB0042","pdfUrl":"https://pdf/42"}`, w.Body.String())
	})

	t.Run("upstream failure yields 500", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})
		env.storefront.order = &integration.Order{ID: 1, Name: "#1001"}
		env.accounting.createErr = integration.NewUpstreamError("smartbill", 400, "invalid series")

		w := env.request(t, http.MethodPost, "/actions/document", `{"orderRef":"#1001"}`, nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "invalid series")
	})
}

func TestActionsCredit(t *testing.T) {
	env := newTestEnv(t, settings.Settings{})
	env.storefront.order = &integration.Order{ID: 1, Name: "#1001"}
	env.accounting.result = &billing.DocumentResult{Number: "SB0043"}

	w := env.request(t, http.MethodPost, "/actions/credit", `{"orderRef":"#1001","reason":"Retur"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, env.accounting.creditCalls)
	assert.Contains(t, w.Body.String(), "SB0043")
}

func TestWebhookShopify(t *testing.T) {
	orderBody := `{"id":450789469,"name":"#1001","line_items":[{"title":"Shirt","sku":"S1","quantity":1,"price":"10.00"}]}`

	t.Run("valid signature with auto invoice issues document", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{AutoInvoice: true})
		env.accounting.result = &billing.DocumentResult{Number: "SB0042"}

		w := env.request(t, http.MethodPost, "/webhooks/shopify", orderBody, map[string]string{
			"X-Shopify-Hmac-Sha256": sign(orderBody),
			"X-Shopify-Topic":       "orders/paid",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
		assert.Equal(t, 1, env.accounting.createCalls)
	})

	t.Run("invalid signature rejected before any action", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{AutoInvoice: true})

		w := env.request(t, http.MethodPost, "/webhooks/shopify", orderBody, map[string]string{
			"X-Shopify-Hmac-Sha256": sign(orderBody + "tampered"),
			"X-Shopify-Topic":       "orders/paid",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 0, env.accounting.createCalls)
	})

	t.Run("missing signature header rejected", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{AutoInvoice: true})

		w := env.request(t, http.MethodPost, "/webhooks/shopify", orderBody, map[string]string{
			"X-Shopify-Topic": "orders/paid",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("automation off acknowledges without action", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{})

		w := env.request(t, http.MethodPost, "/webhooks/shopify", orderBody, map[string]string{
			"X-Shopify-Hmac-Sha256": sign(orderBody),
			"X-Shopify-Topic":       "orders/paid",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, env.accounting.createCalls)
	})

	t.Run("downstream failure still acknowledged", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{AutoInvoice: true})
		env.accounting.createErr = integration.NewUpstreamError("smartbill", 500, "boom")

		w := env.request(t, http.MethodPost, "/webhooks/shopify", orderBody, map[string]string{
			"X-Shopify-Hmac-Sha256": sign(orderBody),
			"X-Shopify-Topic":       "orders/paid",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	})

	t.Run("unreadable body answers plain text", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{AutoInvoice: true})

		req := httptest.NewRequest(http.MethodPost, "/webhooks/shopify", brokenReader{})
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "error", w.Body.String())
		assert.Equal(t, 0, env.accounting.createCalls)
	})

	t.Run("refund topic issues credit note", func(t *testing.T) {
		env := newTestEnv(t, settings.Settings{AutoCreditNote: true})
		env.accounting.result = &billing.DocumentResult{Number: "SB0043"}

		w := env.request(t, http.MethodPost, "/webhooks/shopify", orderBody, map[string]string{
			"X-Shopify-Hmac-Sha256": sign(orderBody),
			"X-Shopify-Topic":       "refunds/create",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, env.accounting.creditCalls)
	})
}
