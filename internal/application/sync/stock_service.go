package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/billing"
	"github.com/billsync/backend/internal/domain/integration"
)

// PassSummary counts the outcomes of one reconciliation pass
type PassSummary struct {
	Listed  int // variants returned by the storefront listing
	Synced  int // inventory levels written
	Skipped int // SKUs without snapshot data or storefront match
	Failed  int // per-item lookup/write failures
}

// StockSyncService runs one stock reconciliation pass: list recent
// storefront variants, batch-fetch their stock from the accounting system,
// and push per-SKU inventory levels back to the storefront. Each pass is
// independent; no state is shared between runs.
type StockSyncService struct {
	storefront integration.StorefrontGateway
	accounting billing.AccountingGateway
	batchSize  int
	logger     *zap.Logger
}

// NewStockSyncService creates a new StockSyncService
func NewStockSyncService(
	storefront integration.StorefrontGateway,
	accounting billing.AccountingGateway,
	batchSize int,
	logger *zap.Logger,
) *StockSyncService {
	return &StockSyncService{
		storefront: storefront,
		accounting: accounting,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// RunPass executes one reconciliation pass. A returned error means the pass
// aborted before the per-item loop (listing, stock fetch or location
// resolution failed); per-item failures inside the loop are logged, counted
// and never abort the remaining items. SKUs absent from the snapshot are
// left untouched.
func (s *StockSyncService) RunPass(ctx context.Context) (PassSummary, error) {
	var summary PassSummary

	variants, err := s.storefront.ListRecentVariants(ctx, s.batchSize)
	if err != nil {
		return summary, fmt.Errorf("failed to list variants: %w", err)
	}
	summary.Listed = len(variants)

	// Duplicates are kept; downstream lookups tolerate repeats.
	skus := make([]string, 0, len(variants))
	for _, v := range variants {
		if v.SKU != "" {
			skus = append(skus, v.SKU)
		}
	}
	if len(skus) == 0 {
		s.logger.Info("stock sync pass: no SKUs to reconcile")
		return summary, nil
	}

	snapshot, err := s.accounting.FetchStock(ctx, skus)
	if err != nil {
		return summary, fmt.Errorf("failed to fetch stock snapshot: %w", err)
	}

	locationID, err := s.storefront.ResolveLocation(ctx)
	if err != nil {
		return summary, fmt.Errorf("failed to resolve inventory location: %w", err)
	}

	for _, sku := range skus {
		qty, ok := snapshot[sku]
		if !ok {
			// No data from the accounting side; leave the level untouched.
			summary.Skipped++
			continue
		}

		itemID, err := s.storefront.ResolveInventoryItemID(ctx, sku)
		if err != nil {
			summary.Failed++
			s.logger.Error("stock sync: inventory item lookup failed",
				zap.String("sku", sku),
				zap.Error(err))
			continue
		}
		if itemID == 0 {
			summary.Skipped++
			continue
		}

		if err := s.storefront.SetInventoryLevel(ctx, itemID, locationID, qty); err != nil {
			summary.Failed++
			s.logger.Error("stock sync: inventory write failed",
				zap.String("sku", sku),
				zap.Error(err))
			continue
		}
		summary.Synced++
		s.logger.Debug("stock sync: level updated",
			zap.String("sku", sku),
			zap.String("available", qty.String()))
	}

	s.logger.Info("stock sync pass complete",
		zap.Int("listed", summary.Listed),
		zap.Int("synced", summary.Synced),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed))
	return summary, nil
}
