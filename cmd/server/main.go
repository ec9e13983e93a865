package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	billingapp "github.com/crmpro/backend/internal/application/billing"
	catalogapp "github.com/crmpro/backend/internal/application/catalog"
	identityapp "github.com/crmpro/backend/internal/application/identity"
	inventoryapp "github.com/crmpro/backend/internal/application/inventory"
	ledgerapp "github.com/crmpro/backend/internal/application/ledger"
	reportapp "github.com/crmpro/backend/internal/application/report"
	salesapp "github.com/crmpro/backend/internal/application/sales"
	"github.com/crmpro/backend/internal/infrastructure/auth"
	"github.com/crmpro/backend/internal/infrastructure/config"
	"github.com/crmpro/backend/internal/infrastructure/event"
	"github.com/crmpro/backend/internal/infrastructure/logger"
	"github.com/crmpro/backend/internal/infrastructure/persistence"
	"github.com/crmpro/backend/internal/infrastructure/scheduler"
	"github.com/crmpro/backend/internal/interfaces/http/handler"
	"github.com/crmpro/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	// Database
	db, err := persistence.NewDatabaseWithZap(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Token blacklist. Redis keeps revocations across restarts; without it
	// logout still works within a single process.
	blacklist := newTokenBlacklist(cfg, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	eventBus.Subscribe(event.NewAuditLogger(log))

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	lineRepo := persistence.NewGormSaleLineRepository(db.DB)
	countRepo := persistence.NewGormStockCountRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRequestRepository(db.DB)

	// Services
	subscriptionService := billingapp.NewSubscriptionService(
		persistence.NewGormBillingTransactionScope(db.DB),
		planRepo, paymentRepo, tenantRepo,
		productRepo, userRepo,
		eventBus,
	)
	authService := identityapp.NewAuthService(userRepo, tenantRepo, jwtService, blacklist, cfg.Platform)
	tenantService := identityapp.NewTenantService(tenantRepo, userRepo, eventBus)
	userService := identityapp.NewUserService(userRepo, subscriptionService)
	productService := catalogapp.NewProductService(productRepo, subscriptionService, eventBus)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	saleService := salesapp.NewSaleService(
		persistence.NewGormSalesTransactionScope(db.DB), saleRepo, eventBus)
	debtorService := ledgerapp.NewDebtorService(lineRepo)
	paymentService := ledgerapp.NewPaymentService(
		persistence.NewGormLedgerTransactionScope(db.DB), lineRepo, eventBus)
	stockCountService := inventoryapp.NewStockCountService(
		persistence.NewGormInventoryTransactionScope(db.DB), countRepo, productRepo, eventBus)
	reportService := reportapp.NewReportService(saleRepo, lineRepo)
	backupService := reportapp.NewBackupService(productRepo, saleRepo, lineRepo)

	// HTTP
	mode := gin.ReleaseMode
	if cfg.App.Env != "production" {
		mode = gin.DebugMode
	}

	engine := router.New(router.Config{
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Mode:           mode,
	}).Register(
		handler.NewSystemHandler(db.DB, version),
		handler.NewAuthHandler(authService, tenantService),
		handler.NewTenantHandler(tenantService),
		handler.NewUserHandler(userService),
		handler.NewProductHandler(productService),
		handler.NewCategoryHandler(categoryService),
		handler.NewSaleHandler(saleService),
		handler.NewDebtorHandler(debtorService, paymentService),
		handler.NewStockCountHandler(stockCountService),
		handler.NewBillingHandler(subscriptionService),
		handler.NewReportHandler(reportService, backupService),
	).Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Background expiry sweep
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sweeper *scheduler.ExpirySweeper
	if cfg.Billing.SweepEnabled {
		sweeperCfg := scheduler.DefaultExpirySweeperConfig()
		sweeperCfg.Hour = cfg.Billing.ExpiryCheckHour
		sweeperCfg.GraceDays = cfg.Billing.GraceDays
		sweeper = scheduler.NewExpirySweeper(sweeperCfg, subscriptionService, log)
		sweeper.Start(ctx)
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sweeper != nil {
		if err := sweeper.Stop(shutdownCtx); err != nil {
			log.Error("expiry sweeper shutdown failed", zap.Error(err))
		}
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
		os.Exit(1)
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("event bus shutdown failed", zap.Error(err))
	}

	log.Info("server stopped")
}

func newTokenBlacklist(cfg *config.Config, log *zap.Logger) auth.TokenBlacklist {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		return auth.NewInMemoryTokenBlacklist()
	}

	log.Info("redis connected", zap.String("addr", cfg.Redis.Addr()))
	return auth.NewRedisTokenBlacklist(client)
}
