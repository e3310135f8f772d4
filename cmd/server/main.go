package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appassets "github.com/bizledger/backend/internal/application/assets"
	appexpense "github.com/bizledger/backend/internal/application/expense"
	appledger "github.com/bizledger/backend/internal/application/ledger"
	apploans "github.com/bizledger/backend/internal/application/loans"
	appparty "github.com/bizledger/backend/internal/application/party"
	appprocurement "github.com/bizledger/backend/internal/application/procurement"
	appsales "github.com/bizledger/backend/internal/application/sales"
	"github.com/bizledger/backend/internal/infrastructure/cache"
	"github.com/bizledger/backend/internal/infrastructure/config"
	"github.com/bizledger/backend/internal/infrastructure/logger"
	"github.com/bizledger/backend/internal/infrastructure/persistence"
	"github.com/bizledger/backend/internal/infrastructure/telemetry"
	"github.com/bizledger/backend/internal/interfaces/http/handler"
	"github.com/bizledger/backend/internal/interfaces/http/middleware"
	"github.com/bizledger/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ledger backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize tracing and metrics
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Ledger domain metrics with periodic balance collection
	ledgerMetrics, err := telemetry.NewLedgerMetrics(telemetry.LedgerMetricsConfig{
		Meter:           meterProvider.Meter("bizledger"),
		Logger:          log,
		BalanceProvider: persistence.NewGormBalanceMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize ledger metrics", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		ledgerMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
		defer ledgerMetrics.Stop()
	}

	// Cache invalidator (Redis when configured, in-memory otherwise)
	invalidator := cache.NewInvalidator(cfg.Redis, log)

	// Transaction scope and audit sink over the shared connection
	scope := persistence.NewGormTransactionScope(db.DB)
	auditSink := persistence.NewRepositoryAuditSink(db.DB, log)

	// Application services
	paymentService := appledger.NewPaymentService(scope, auditSink, invalidator, log)
	recalcService := appledger.NewRecalcService(scope, auditSink, log)
	partyService := appparty.NewService(scope, auditSink, log)
	saleService := appsales.NewService(scope, auditSink, invalidator, log)
	procurementService := appprocurement.NewService(scope, auditSink, invalidator, log)
	assetService := appassets.NewService(scope, auditSink, invalidator, log)
	expenseService := appexpense.NewService(scope, auditSink, invalidator, log)
	loanService := apploans.NewService(scope, auditSink, log)

	// Periodic reconciliation sweep
	if cfg.Recalc.Enabled {
		go runRecalcSweep(ctx, recalcService, cfg.Recalc.Interval, log)
		log.Info("Reconciliation sweep enabled", zap.Duration("interval", cfg.Recalc.Interval))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Register domain routes under /api/v1
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewSystemHandler(db)).
		Register(handler.NewPartyHandler(partyService)).
		Register(handler.NewSaleHandler(saleService)).
		Register(handler.NewProcurementHandler(procurementService)).
		Register(handler.NewAssetHandler(assetService)).
		Register(handler.NewExpenseHandler(expenseService)).
		Register(handler.NewLoanHandler(loanService)).
		Register(handler.NewPaymentHandler(paymentService)).
		Register(handler.NewRecalcHandler(recalcService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runRecalcSweep periodically recomputes derived payment state from ground
// truth. Errors are logged and the sweep keeps running.
func runRecalcSweep(ctx context.Context, svc *appledger.RecalcService, interval time.Duration, log *zap.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := svc.RecalculateAll(ctx)
			if err != nil {
				log.Error("Reconciliation sweep failed", zap.Error(err))
				continue
			}
			if report.Updated > 0 || report.Failed > 0 {
				log.Warn("Reconciliation sweep repaired state",
					zap.Int("total", report.Total),
					zap.Int("updated", report.Updated),
					zap.Int("failed", report.Failed),
				)
			}
		}
	}
}
