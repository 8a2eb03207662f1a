package sync

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/integration"
	"github.com/billsync/backend/internal/infrastructure/settings"
)

// defaultCreditReason is used when a credit-note request carries no reason
const defaultCreditReason = "Return"

// IssueResult is the outcome of one manual issuance
type IssueResult struct {
	DocType billing.DocumentType `json:"docType"`
	Number  string               `json:"number"`
	PDFURL  string               `json:"pdfUrl,omitempty"`
}

// DocumentService issues invoices, proformas and credit notes on demand.
// It resolves the order on the storefront, layers series/warehouse defaults
// from settings and configuration, and delegates to the accounting gateway.
type DocumentService struct {
	storefront integration.StorefrontGateway
	accounting billing.AccountingGateway
	store      settings.Store
	defaults   Defaults
	logger     *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	storefront integration.StorefrontGateway,
	accounting billing.AccountingGateway,
	store settings.Store,
	defaults Defaults,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		storefront: storefront,
		accounting: accounting,
		store:      store,
		defaults:   defaults,
		logger:     logger,
	}
}

// IssueDocument resolves the order by reference and issues an invoice or
// proforma. Warehouse and series fall back from the explicit argument to
// settings to configuration. Issuance is not idempotent upstream; callers
// trigger it deliberately.
func (s *DocumentService) IssueDocument(ctx context.Context, orderRef string, docType billing.DocumentType, warehouse string) (*IssueResult, error) {
	order, err := s.resolveOrder(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	docType = docType.Normalize()
	series := ResolveSeries("", current, s.defaults)
	target := ResolveWarehouse(warehouse, current, s.defaults)

	result, err := s.accounting.CreateDocument(ctx, order, docType, target, series, current.SendPDF())
	if err != nil {
		return nil, err
	}

	s.logger.Info("document issued",
		zap.String("order_ref", order.Ref()),
		zap.String("doc_type", string(docType)),
		zap.String("series", series),
		zap.String("warehouse", target),
		zap.String("number", result.Number))

	return &IssueResult{DocType: docType, Number: result.Number, PDFURL: result.PDFURL}, nil
}

// IssueCreditNote resolves the order by reference and issues a credit note.
// A blank reason defaults to "Return".
func (s *DocumentService) IssueCreditNote(ctx context.Context, orderRef, reason string) (*IssueResult, error) {
	order, err := s.resolveOrder(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	current, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultCreditReason
	}
	series := ResolveSeries("", current, s.defaults)
	warehouse := ResolveWarehouse("", current, s.defaults)

	result, err := s.accounting.CreateCreditNote(ctx, order, warehouse, series, reason)
	if err != nil {
		return nil, err
	}

	s.logger.Info("credit note issued",
		zap.String("order_ref", order.Ref()),
		zap.String("series", series),
		zap.String("warehouse", warehouse),
		zap.String("number", result.Number))

	return &IssueResult{DocType: billing.DocumentTypeCreditNote, Number: result.Number, PDFURL: result.PDFURL}, nil
}

func (s *DocumentService) resolveOrder(ctx context.Context, orderRef string) (*integration.Order, error) {
	if strings.TrimSpace(orderRef) == "" {
		return nil, integration.ErrInvalidOrderRef
	}
	order, err := s.storefront.ResolveOrder(ctx, orderRef)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, integration.ErrOrderNotFound
	}
	return order, nil
}
