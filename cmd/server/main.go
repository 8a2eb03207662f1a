package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	syncapp "github.com/billsync/backend/internal/application/sync"
	"github.com/billsync/backend/internal/infrastructure/billing"
	"github.com/billsync/backend/internal/infrastructure/config"
	"github.com/billsync/backend/internal/infrastructure/ecommerce"
	"github.com/billsync/backend/internal/infrastructure/logger"
	"github.com/billsync/backend/internal/infrastructure/scheduler"
	"github.com/billsync/backend/internal/infrastructure/settings"
	"github.com/billsync/backend/internal/interfaces/http/handler"
	"github.com/billsync/backend/internal/interfaces/http/middleware"
	"github.com/billsync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting billsync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Settings store
	store, err := newSettingsStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize settings store", zap.Error(err))
	}
	log.Info("Settings store ready", zap.String("backend", cfg.Settings.Backend))

	// Upstream adapters
	storefront, err := ecommerce.NewShopifyAdapter(&ecommerce.ShopifyConfig{
		StoreDomain:    cfg.Shopify.StoreDomain,
		APIVersion:     cfg.Shopify.APIVersion,
		AccessToken:    cfg.Shopify.AccessToken,
		LocationID:     cfg.Shopify.LocationID,
		TimeoutSeconds: int(cfg.Shopify.Timeout.Seconds()),
	})
	if err != nil {
		log.Fatal("Failed to initialize storefront adapter", zap.Error(err))
	}

	accounting, err := billing.NewSmartBillAdapter(&billing.SmartBillConfig{
		APIBaseURL:     cfg.SmartBill.APIBase,
		Token:          cfg.SmartBill.Token,
		VATCode:        cfg.SmartBill.VATCode,
		TimeoutSeconds: int(cfg.SmartBill.Timeout.Seconds()),
	})
	if err != nil {
		log.Fatal("Failed to initialize accounting adapter", zap.Error(err))
	}

	// Application services
	defaults := syncapp.Defaults{
		Series:         cfg.SmartBill.DefaultSeries,
		Warehouse:      cfg.SmartBill.DefaultWarehouse,
		AutoInvoice:    cfg.Sync.AutoInvoice,
		AutoCreditNote: cfg.Sync.AutoCreditNote,
	}
	documentService := syncapp.NewDocumentService(storefront, accounting, store, defaults, log)
	webhookService := syncapp.NewWebhookService(cfg.Shopify.WebhookSecret, accounting, store, defaults, log)
	stockService := syncapp.NewStockSyncService(storefront, accounting, cfg.Sync.StockBatchSize, log)

	// Stock reconciliation trigger
	if cfg.Sync.StockEnabled {
		trigger := scheduler.NewStockSyncTrigger(stockService, scheduler.StockSyncTriggerConfig{
			Interval: cfg.Sync.StockInterval,
		}, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start stock sync trigger", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := trigger.Stop(ctx); err != nil {
				log.Error("Stock sync trigger did not stop cleanly", zap.Error(err))
			}
		}()
	} else {
		log.Info("Stock sync disabled")
	}

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Routes
	router.NewRouter(engine).
		Register(handler.NewSystemHandler()).
		Register(handler.NewMetaHandler(accounting)).
		Register(handler.NewSettingsHandler(store)).
		Register(handler.NewActionsHandler(documentService)).
		Register(handler.NewWebhookHandler(webhookService, log)).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newSettingsStore builds the configured settings store backend
func newSettingsStore(cfg *config.Config) (settings.Store, error) {
	if cfg.Settings.Backend == "sqlite" {
		return settings.NewGormStore(cfg.Settings.DSN)
	}
	return settings.NewFileStore(cfg.Settings.Path)
}
