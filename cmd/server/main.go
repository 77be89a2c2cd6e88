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

	billingapp "github.com/kyber/backend/internal/application/billing"
	expenseapp "github.com/kyber/backend/internal/application/expense"
	identityapp "github.com/kyber/backend/internal/application/identity"
	reportapp "github.com/kyber/backend/internal/application/report"
	settingsapp "github.com/kyber/backend/internal/application/settings"
	"github.com/kyber/backend/internal/infrastructure/auth"
	"github.com/kyber/backend/internal/infrastructure/config"
	"github.com/kyber/backend/internal/infrastructure/crypto"
	"github.com/kyber/backend/internal/infrastructure/logger"
	"github.com/kyber/backend/internal/infrastructure/mailer"
	"github.com/kyber/backend/internal/infrastructure/pdf"
	"github.com/kyber/backend/internal/infrastructure/persistence"
	"github.com/kyber/backend/internal/infrastructure/storage"
	"github.com/kyber/backend/internal/interfaces/http/handler"
	"github.com/kyber/backend/internal/interfaces/http/middleware"
	"github.com/kyber/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags
var version = "dev"

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
		_ = logger.Sync(log)
	}()

	log.Info("Starting Kyber Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token blacklist backs logout. Redis keeps revocations across
	// restarts; without it revoked tokens only stay revoked in-process.
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = redisBlacklist
		log.Info("Redis token blacklist enabled", zap.String("host", cfg.Redis.Host))
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis not configured, using in-memory token blacklist")
	}

	// Secret storage for SMTP and PayPal credentials
	secrets, err := crypto.NewSecretBox(cfg.Crypto.MasterKey)
	if err != nil {
		log.Fatal("Failed to initialize secret encryption", zap.Error(err))
	}

	// File storage for receipts and logos
	var files storage.FileStorage
	var localFiles *storage.LocalStorage
	switch cfg.Storage.Driver {
	case "s3":
		files, err = storage.NewS3Storage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		log.Info("S3 file storage enabled", zap.String("bucket", cfg.Storage.S3Bucket))
	default:
		localFiles, err = storage.NewLocalStorage(&cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize local storage", zap.Error(err))
		}
		files = localFiles
	}

	// PDF rendering
	templateRegistry, err := pdf.NewTemplateRegistry()
	if err != nil {
		log.Fatal("Failed to load PDF templates", zap.Error(err))
	}
	renderer, err := pdf.NewChromedpRenderer(&pdf.ChromedpConfig{
		Timeout:  cfg.PDF.RenderTimeout,
		ExecPath: cfg.PDF.ChromePath,
		Logger:   log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	smtpMailer := mailer.NewSMTPMailer(log)

	// Initialize repositories
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	emailTemplateRepo := persistence.NewGormEmailTemplateRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)

	pdfService := billingapp.NewDocumentPDFService(settingsRepo, templateRegistry, renderer)
	mailService := billingapp.NewDocumentMailService(settingsRepo, emailTemplateRepo, secrets, smtpMailer, log)
	quoteService := billingapp.NewQuoteService(quoteRepo, invoiceRepo, pdfService, mailService, log)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, settingsRepo, secrets, pdfService, mailService, log)

	expenseService := expenseapp.NewExpenseService(expenseRepo, categoryRepo, vendorRepo, files, log)
	expenseCategoryService := expenseapp.NewCategoryService(categoryRepo, expenseRepo)
	vendorService := expenseapp.NewVendorService(vendorRepo)

	settingsService := settingsapp.NewSettingsService(settingsRepo, secrets, files, log)
	emailTemplateService := settingsapp.NewEmailTemplateService(emailTemplateRepo, log)

	reportService := reportapp.NewReportService(quoteRepo, invoiceRepo, expenseRepo, categoryRepo)

	// Seed the built-in email templates so document sending works on a
	// fresh install
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := emailTemplateService.Seed(seedCtx); err != nil {
		log.Error("Failed to seed email templates", zap.Error(err))
	}
	seedCancel()

	// Initialize Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxy configuration", zap.Error(err))
		}
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		gin.Recovery(),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			SkipPaths: []string{
				"/health",
				"/ready",
				"/api/v1/auth/login",
				"/api/v1/auth/register",
			},
			SkipPathPrefixes: []string{
				"/api/v1/public",
				"/uploads",
			},
			Logger: log,
		}),
	)

	// Brute-force protection on the credential endpoints
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, loginLimiter)
	userHandler := handler.NewUserHandler(userService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	categoryHandler := handler.NewCategoryHandler(expenseCategoryService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	pdfTemplateHandler := handler.NewPDFTemplateHandler(pdfService)
	emailTemplateHandler := handler.NewEmailTemplateHandler(emailTemplateService)
	reportHandler := handler.NewReportHandler(reportService)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(authHandler).
		Register(userHandler).
		Register(quoteHandler).
		Register(invoiceHandler).
		Register(expenseHandler).
		Register(categoryHandler).
		Register(vendorHandler).
		Register(settingsHandler).
		Register(pdfTemplateHandler).
		Register(emailTemplateHandler).
		Register(reportHandler)
	r.Setup()

	// Unauthenticated payment-link routes
	publicAPI := engine.Group("/api/v1")
	invoiceHandler.RegisterPublicRoutes(publicAPI)
	settingsHandler.RegisterPublicRoutes(publicAPI)

	// Health endpoints live at the engine root, outside the API version
	systemHandler := handler.NewSystemHandler(db.DB, version)
	systemHandler.RegisterRoutes(engine)

	// Local storage serves uploads straight from disk. S3 serves files
	// from the bucket's own public URL instead.
	if localFiles != nil {
		engine.Static("/uploads", localFiles.BaseDir())
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
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
