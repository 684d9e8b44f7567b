package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saralbilling/saral-api/internal/config"
	domainRepo "github.com/saralbilling/saral-api/internal/domain/repository"
	"github.com/saralbilling/saral-api/internal/presentation/http/handler"
	"github.com/saralbilling/saral-api/internal/presentation/http/middleware"
	"github.com/saralbilling/saral-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Tenant    *handler.TenantHandler
	Product   *handler.ProductHandler
	Customer  *handler.CustomerHandler
	Bill      *handler.BillHandler
	Note      *handler.NoteHandler
	Webhook   *handler.WebhookHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
	Settings  *handler.SettingsHandler
	User      *handler.UserHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	TenantRepo      domainRepo.TenantRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-tenant rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		// Store resolution: token claim, X-Tenant-ID header or subdomain
		protected.Use(middleware.TenantMiddleware(deps.TenantRepo))

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.POST("/auth/switch-tenant", h.Auth.SwitchTenant)
	protected.GET("/profile", h.Auth.GetProfile)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Settings
	protected.GET("/settings", h.Settings.Get)
	protected.PUT("/settings", h.Settings.Update)

	// Stores
	registerTenantRoutes(protected, h)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboard.Use(middleware.RequireTenant(), middleware.RequirePermission("view-dashboard"))
	{
		dashboard.GET("", h.Dashboard.GetStats)
	}

	// Products
	registerProductRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Bills
	registerBillRoutes(protected, h, deps)

	// Notes
	registerNoteRoutes(protected, h)

	// Webhooks
	registerWebhookRoutes(protected, h)

	// Reports
	registerReportRoutes(protected, h)

	// Users (Admin)
	registerUserRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerTenantRoutes(protected *gin.RouterGroup, h *Handlers) {
	tenants := protected.Group("/tenants")
	{
		tenants.GET("", h.Tenant.List)
		tenants.POST("", h.Tenant.Create)
		tenants.GET("/:id", h.Tenant.Get)
		tenants.PUT("/:id", h.Tenant.Update)
		tenants.DELETE("/:id", h.Tenant.Delete)
		tenants.GET("/:id/members", h.Tenant.GetMembers)
		tenants.POST("/:id/members", h.Tenant.AddMember)
		tenants.PUT("/:id/members/:member_id", h.Tenant.UpdateMemberRole)
		tenants.DELETE("/:id/members/:member_id", h.Tenant.RemoveMember)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	products.Use(middleware.RequireTenant(), middleware.RequirePermission("manage-products"))
	{
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.POST("/import", h.Product.Import)
		products.GET("/low-stock", h.Product.GetLowStock)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", h.Product.Update)
		products.DELETE("/:id", h.Product.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequireTenant(), middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/lookup", h.Customer.FindByPhone)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/notes", h.Customer.GetNotes)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := protected.Group("/bills")
	bills.Use(middleware.RequireTenant(), middleware.RequirePermission("manage-bills"))
	{
		bills.GET("", h.Bill.List)
		bills.POST("/preview", h.Bill.Preview)
		// Bill creation uses idempotency middleware to prevent duplicates
		bills.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Bill.Create)
		bills.GET("/by-no/:bill_no", h.Bill.GetByNo)
		bills.GET("/:id", h.Bill.Get)
		bills.PUT("/:id", h.Bill.Update)
		bills.GET("/:id/splits", h.Bill.GetPaymentSplits)
		bills.POST("/:id/payments", h.Bill.RecordPayment)
		bills.POST("/:id/cancel", h.Bill.Cancel)
	}
}

func registerNoteRoutes(protected *gin.RouterGroup, h *Handlers) {
	notes := protected.Group("/notes")
	notes.Use(middleware.RequireTenant(), middleware.RequirePermission("manage-notes"))
	{
		notes.GET("", h.Note.List)
		notes.POST("", h.Note.Create)
		notes.GET("/:id", h.Note.Get)
		notes.PUT("/:id", h.Note.Update)
		notes.DELETE("/:id", h.Note.Delete)
	}
}

func registerWebhookRoutes(protected *gin.RouterGroup, h *Handlers) {
	webhooks := protected.Group("/webhooks")
	webhooks.Use(middleware.RequireTenant(), middleware.RequirePermission("manage-webhooks"))
	{
		webhooks.GET("", h.Webhook.List)
		webhooks.POST("", h.Webhook.Create)
		webhooks.GET("/:id", h.Webhook.Get)
		webhooks.PUT("/:id", h.Webhook.Update)
		webhooks.DELETE("/:id", h.Webhook.Delete)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireTenant(), middleware.RequirePermission("view-reports"))
	{
		reports.GET("/sales", h.Report.SalesReport)
		reports.GET("/gst-summary", h.Report.GSTSummary)
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.DELETE("/:id", h.User.Delete)
	}

	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}

	permissions := protected.Group("/permissions")
	permissions.Use(middleware.RequirePermission("manage-users"))
	{
		permissions.GET("", h.User.ListPermissions)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printerGroup := protected.Group("/printer")
	printerGroup.Use(middleware.RequireTenant())
	{
		printerGroup.GET("/status", h.Printer.GetStatus)
		printerGroup.POST("/test", h.Printer.TestPrint)
		printerGroup.POST("/receipt/:id", h.Printer.PrintReceipt)
	}
}
