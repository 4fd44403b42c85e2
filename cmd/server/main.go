package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/clickinvoice/backend/internal/application/billing"
	identityapp "github.com/clickinvoice/backend/internal/application/identity"
	invoicingapp "github.com/clickinvoice/backend/internal/application/invoicing"
	partnerapp "github.com/clickinvoice/backend/internal/application/partner"
	"github.com/clickinvoice/backend/internal/infrastructure/auth"
	"github.com/clickinvoice/backend/internal/infrastructure/config"
	"github.com/clickinvoice/backend/internal/infrastructure/logger"
	"github.com/clickinvoice/backend/internal/infrastructure/persistence"
	"github.com/clickinvoice/backend/internal/interfaces/http/handler"
	"github.com/clickinvoice/backend/internal/interfaces/http/middleware"
	"github.com/clickinvoice/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting ClickInvoice backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs the token blacklist. The service stays up without it, with
	// revocation checks disabled.
	var tokenBlacklist auth.TokenBlacklist
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, token revocation checks disabled", zap.Error(err))
	} else {
		tokenBlacklist = auth.NewRedisTokenBlacklist(redisClient)
		defer redisClient.Close()
	}
	cancelPing()

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	currencyRepo := persistence.NewGormCurrencyRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)

	// Application services
	quotaService := billingapp.NewQuotaService(planRepo, invoiceRepo, tenantRepo)
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, customerRepo, currencyRepo, tenantRepo, quotaService)
	customerService := partnerapp.NewCustomerService(customerRepo)
	tenantService := identityapp.NewTenantService(tenantRepo, currencyRepo, quotaService)

	jwtService := auth.NewJWTService(cfg.JWT)

	// Handlers
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	customerHandler := handler.NewCustomerHandler(customerService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	currencyHandler := handler.NewCurrencyHandler(tenantService)
	systemHandler := handler.NewSystemHandler(db.Ping)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check outside API versioning
	engine.GET("/health", systemHandler.Health)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// JWT validation for API routes; the currency directory stays public
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/health",
			"/api/v1/currencies",
		},
		Logger: log,
	}))

	// Workspace resolution for tenant-scoped routes
	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.Validator = tenantService
	tenantCfg.SkipPaths = []string{
		"/api/v1/health",
		"/api/v1/currencies",
		"/api/v1/tenants",
	}
	r.Use(middleware.TenantMiddleware(tenantCfg))

	// Invoicing routes
	invoicingRoutes := router.NewDomainGroup("invoicing", "")
	invoicingRoutes.POST("/invoices", invoiceHandler.Create)
	invoicingRoutes.GET("/invoices", invoiceHandler.List)
	invoicingRoutes.GET("/invoices/latest", invoiceHandler.Latest)
	invoicingRoutes.GET("/invoices/summary", invoiceHandler.Summary)
	invoicingRoutes.GET("/invoices/:invoiceId", invoiceHandler.Get)
	invoicingRoutes.PATCH("/invoices/:invoiceId/status", invoiceHandler.UpdateStatus)
	invoicingRoutes.GET("/receipts", invoiceHandler.Receipts)
	invoicingRoutes.GET("/receipts/:receiptId", invoiceHandler.GetReceipt)

	// Partner routes
	partnerRoutes := router.NewDomainGroup("partner", "")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.Get)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)
	partnerRoutes.GET("/customers/:id/invoices", invoiceHandler.ListByCustomer)

	// Identity routes
	identityRoutes := router.NewDomainGroup("identity", "")
	identityRoutes.POST("/tenants", tenantHandler.Create)
	identityRoutes.GET("/tenants", tenantHandler.List)
	identityRoutes.GET("/tenants/:id", tenantHandler.Get)
	identityRoutes.PUT("/tenants/:id/currency", tenantHandler.ChangeCurrency)
	identityRoutes.GET("/currencies", currencyHandler.List)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "")
	systemRoutes.GET("/health", systemHandler.Health)

	r.Register(invoicingRoutes).
		Register(partnerRoutes).
		Register(identityRoutes).
		Register(systemRoutes)

	r.Setup()

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
