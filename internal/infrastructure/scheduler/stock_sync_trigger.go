// Package scheduler runs the periodic stock reconciliation job on a fixed
// interval.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	syncapp "github.com/billsync/backend/internal/application/sync"
)

// StockSyncTriggerConfig holds configuration for the stock sync trigger
type StockSyncTriggerConfig struct {
	Interval time.Duration
}

// DefaultStockSyncTriggerConfig returns default configuration
func DefaultStockSyncTriggerConfig() StockSyncTriggerConfig {
	return StockSyncTriggerConfig{
		Interval: time.Minute,
	}
}

// PassRunner executes one reconciliation pass
type PassRunner interface {
	RunPass(ctx context.Context) (syncapp.PassSummary, error)
}

// StockSyncTrigger fires a reconciliation pass on every tick. A pass still
// in flight is never overlapped; the tick is skipped instead. Pass failures
// are logged and do not affect the next tick.
type StockSyncTrigger struct {
	service PassRunner
	config  StockSyncTriggerConfig
	logger  *zap.Logger

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running sync.Mutex
}

// NewStockSyncTrigger creates a new stock sync trigger
func NewStockSyncTrigger(service PassRunner, config StockSyncTriggerConfig, logger *zap.Logger) *StockSyncTrigger {
	if config.Interval <= 0 {
		config.Interval = DefaultStockSyncTriggerConfig().Interval
	}
	return &StockSyncTrigger{
		service: service,
		config:  config,
		logger:  logger,
	}
}

// Start starts the background tick loop
func (t *StockSyncTrigger) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.tickLoop(ctx)

	t.logger.Info("stock sync trigger started",
		zap.Duration("interval", t.config.Interval),
	)
	return nil
}

// Stop gracefully stops the trigger, waiting for an in-flight pass
func (t *StockSyncTrigger) Stop(ctx context.Context) error {
	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("stock sync trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *StockSyncTrigger) tickLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

// runOnce executes a single pass unless one is already running
func (t *StockSyncTrigger) runOnce(ctx context.Context) {
	if !t.running.TryLock() {
		t.logger.Warn("stock sync pass still running, tick skipped")
		return
	}
	defer t.running.Unlock()

	if _, err := t.service.RunPass(ctx); err != nil {
		t.logger.Error("stock sync pass failed", zap.Error(err))
	}
}
