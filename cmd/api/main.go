package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/saralbilling/saral-api/internal/application/service"
	"github.com/saralbilling/saral-api/internal/config"
	"github.com/saralbilling/saral-api/internal/infrastructure/database"
	"github.com/saralbilling/saral-api/internal/infrastructure/repository"
	"github.com/saralbilling/saral-api/internal/presentation/http/handler"
	"github.com/saralbilling/saral-api/internal/presentation/http/routes"
	"github.com/saralbilling/saral-api/pkg/email"
	"github.com/saralbilling/saral-api/pkg/oauth"
	"github.com/saralbilling/saral-api/pkg/printer"
	"github.com/saralbilling/saral-api/pkg/utils"
	"github.com/saralbilling/saral-api/pkg/webhook"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permissionRepo := repository.NewPermissionRepository(db)
	tenantRepo := repository.NewTenantRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	billRepo := repository.NewBillRepository(db)
	billItemRepo := repository.NewBillItemRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	webhookRepo := repository.NewWebhookRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.SMTP.Host,
		SMTPPort:     cfg.SMTP.Port,
		SMTPUsername: cfg.SMTP.User,
		SMTPPassword: cfg.SMTP.Password,
		FromEmail:    cfg.SMTP.From,
		FrontendURL:  cfg.App.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.SuccessRedirectURL,
		FrontendErrorURL:   cfg.OAuth.ErrorRedirectURL,
	})

	// Initialize webhook dispatcher
	dispatcher := webhook.NewDispatcher(cfg.Webhook.Timeout, cfg.Webhook.MaxRetries)

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, tenantRepo, passwordResetRepo, jwtManager, emailService)
	tenantService := service.NewTenantService(tenantRepo, userRepo)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo, noteRepo)
	webhookService := service.NewWebhookService(webhookRepo, dispatcher)
	billService := service.NewBillService(billRepo, billItemRepo, productRepo, customerRepo, tenantRepo, webhookService)
	noteService := service.NewNoteService(noteRepo, customerRepo, billRepo)
	reportService := service.NewReportService(billRepo, analyticsRepo)
	dashboardService := service.NewDashboardService(billRepo, productRepo, customerRepo, analyticsRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Backend,
		cfg.Printer.DevicePath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, billRepo, tenantRepo, cfg.Printer.Backend, cfg.Printer.PaperWidth)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService, googleOAuthService),
		Tenant:    handler.NewTenantHandler(tenantService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		Bill:      handler.NewBillHandler(billService),
		Note:      handler.NewNoteHandler(noteService),
		Webhook:   handler.NewWebhookHandler(webhookService),
		Report:    handler.NewReportHandler(reportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Settings:  handler.NewSettingsHandler(settingsService),
		User:      handler.NewUserHandler(userService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		TenantRepo:      tenantRepo,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
