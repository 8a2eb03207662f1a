package sync

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/integration"
)

// stubStorefront is a hand-written StorefrontGateway test double. Each
// field overrides one operation; unset operations fail loudly via nil
// dereference so tests declare exactly what they exercise.
type stubStorefront struct {
	resolveOrderFn         func(ctx context.Context, ref string) (*integration.Order, error)
	resolveLocationFn      func(ctx context.Context) (int64, error)
	listRecentVariantsFn   func(ctx context.Context, limit int) ([]integration.Variant, error)
	resolveInventoryItemFn func(ctx context.Context, sku string) (int64, error)
	setInventoryLevelFn    func(ctx context.Context, inventoryItemID, locationID int64, available decimal.Decimal) error

	resolveOrderCalls       int
	listRecentVariantsCalls int
	resolveInventoryCalls   int
	setInventoryLevelCalls  int
	setInventoryLevelWrites []inventoryWrite
}

type inventoryWrite struct {
	InventoryItemID int64
	LocationID      int64
	Available       decimal.Decimal
}

func (s *stubStorefront) ResolveOrder(ctx context.Context, ref string) (*integration.Order, error) {
	s.resolveOrderCalls++
	return s.resolveOrderFn(ctx, ref)
}

func (s *stubStorefront) ResolveLocation(ctx context.Context) (int64, error) {
	return s.resolveLocationFn(ctx)
}

func (s *stubStorefront) ListRecentVariants(ctx context.Context, limit int) ([]integration.Variant, error) {
	s.listRecentVariantsCalls++
	return s.listRecentVariantsFn(ctx, limit)
}

func (s *stubStorefront) ResolveInventoryItemID(ctx context.Context, sku string) (int64, error) {
	s.resolveInventoryCalls++
	return s.resolveInventoryItemFn(ctx, sku)
}

func (s *stubStorefront) SetInventoryLevel(ctx context.Context, inventoryItemID, locationID int64, available decimal.Decimal) error {
	s.setInventoryLevelCalls++
	err := s.setInventoryLevelFn(ctx, inventoryItemID, locationID, available)
	if err == nil {
		s.setInventoryLevelWrites = append(s.setInventoryLevelWrites, inventoryWrite{inventoryItemID, locationID, available})
	}
	return err
}

// stubAccounting is a hand-written AccountingGateway test double
type stubAccounting struct {
	listSeriesFn       func(ctx context.Context) ([]string, error)
	listWarehousesFn   func(ctx context.Context) ([]string, error)
	createDocumentFn   func(ctx context.Context, order *integration.Order, docType billing.DocumentType, warehouse, series string, sendEmail bool) (*billing.DocumentResult, error)
	createCreditNoteFn func(ctx context.Context, order *integration.Order, warehouse, series, reason string) (*billing.DocumentResult, error)
	fetchStockFn       func(ctx context.Context, skus []string) (integration.StockSnapshot, error)

	createDocumentCalls   int
	createCreditNoteCalls int
	fetchStockCalls       int
}

func (s *stubAccounting) ListSeries(ctx context.Context) ([]string, error) {
	return s.listSeriesFn(ctx)
}

func (s *stubAccounting) ListWarehouses(ctx context.Context) ([]string, error) {
	return s.listWarehousesFn(ctx)
}

func (s *stubAccounting) CreateDocument(ctx context.Context, order *integration.Order, docType billing.DocumentType, warehouse, series string, sendEmail bool) (*billing.DocumentResult, error) {
	s.createDocumentCalls++
	return s.createDocumentFn(ctx, order, docType, warehouse, series, sendEmail)
}

func (s *stubAccounting) CreateCreditNote(ctx context.Context, order *integration.Order, warehouse, series, reason string) (*billing.DocumentResult, error) {
	s.createCreditNoteCalls++
	return s.createCreditNoteFn(ctx, order, warehouse, series, reason)
}

func (s *stubAccounting) FetchStock(ctx context.Context, skus []string) (integration.StockSnapshot, error) {
	s.fetchStockCalls++
	return s.fetchStockFn(ctx, skus)
}

// Interface guards for the doubles
var (
	_ integration.StorefrontGateway = (*stubStorefront)(nil)
	_ billing.AccountingGateway     = (*stubAccounting)(nil)
)
