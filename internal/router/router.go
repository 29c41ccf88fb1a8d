package router

import (
	"time"

	"minimart/internal/apiclient"
	"minimart/internal/authz"
	"minimart/internal/config"
	"minimart/internal/handler"
	"minimart/internal/live"
	"minimart/internal/middleware"
	"minimart/internal/repository"
	"minimart/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the stores and clients built by main. DB and Redis may be nil;
// the repositories are always set.
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client

	Backend  *apiclient.Client
	Policy   *authz.Policy
	Sessions repository.SessionRepository
	Carts    repository.CartRepository
	Receipts repository.ReceiptRepository
	Jobs     service.JobQueue

	Hub       *live.Hub
	Publisher live.Publisher
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository/Backend ← DB/Redis
func New(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	policy := d.Policy
	if policy == nil {
		policy = authz.Default()
	}

	r := gin.New()

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(d.Backend, d.Sessions, d.Carts, policy, d.Jobs, cfg)
	navSvc := service.NewNavigationService(d.Backend, policy, cfg.LowStockThreshold)
	posSvc := service.NewPosService(d.Backend, d.Carts, d.Receipts, d.Jobs, d.Publisher, cfg)
	catalogSvc := service.NewCatalogService(d.Backend, d.Jobs, d.Publisher)
	inventorySvc := service.NewInventoryService(d.Backend, d.Jobs, d.Publisher)
	reportSvc := service.NewReportService(d.Backend, cfg.LowStockThreshold)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP
	r.Use(middleware.SessionAuth(authSvc, cfg.SessionCookie))

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, policy, cfg)
	navH := handler.NewNavigationHandler(navSvc, policy)
	screenH := handler.NewScreenHandler(navSvc, policy)
	settingsH := handler.NewSettingsHandler(cfg)
	posH := handler.NewPosHandler(posSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	reportH := handler.NewReportHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DB, d.Redis, d.Backend.Breaker(), d.Hub))

	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/logout", authH.Logout)
	}

	// Console screens: every route in the policy table, its aliases and a
	// fallback that sends unknown paths to the role's landing page.
	guard := middleware.ScreenGuard(policy)
	for _, path := range policy.Paths() {
		r.GET(path, guard, screenH.Show)
	}
	for alias := range policy.Aliases() {
		r.GET(alias, guard)
	}
	r.NoRoute(screenH.NoRoute(guard))

	// Protected API. Each group takes the roles of the screen it serves.
	screen := func(path string) gin.HandlerFunc { return middleware.RequireScreen(policy, path) }
	api := r.Group("/api", middleware.RequireSession(policy))
	{
		api.GET("/session", authH.Session)
		api.GET("/navigation", navH.Get)
		api.GET("/locations", catalogH.ListLocations)

		pos := api.Group("/pos", screen("/pos"))
		{
			pos.GET("/cart", posH.Cart)
			pos.DELETE("/cart", posH.Clear)
			pos.POST("/scan", posH.Scan)
			pos.POST("/lines", posH.AddLine)
			pos.PATCH("/lines/:id", posH.AdjustLine)
			pos.DELETE("/lines/:id", posH.RemoveLine)
			pos.PUT("/cash", posH.SetCash)
			pos.POST("/cash/shortcut", posH.CashShortcut)
			pos.GET("/search", posH.Search)
			pos.GET("/quick-picks", posH.QuickPicks)
			pos.POST("/checkout", posH.Checkout)
			pos.GET("/receipts", posH.RecentReceipts)
			pos.GET("/receipts/:orderNumber", posH.Receipt)
			pos.GET("/receipts/:orderNumber/pdf", posH.ReceiptPDF)
			pos.POST("/receipts/:orderNumber/email", posH.EmailReceipt)
		}

		products := api.Group("/products", screen("/inventory/products"))
		{
			products.GET("", catalogH.ListProducts)
			products.POST("", catalogH.CreateProduct)
			products.PUT("/:id", catalogH.UpdateProduct)
			products.DELETE("/:id", catalogH.DeleteProduct)
		}

		categories := api.Group("/categories", screen("/inventory/categories"))
		{
			categories.GET("", catalogH.ListCategories)
			categories.POST("", catalogH.CreateCategory)
			categories.PUT("/:id", catalogH.UpdateCategory)
			categories.DELETE("/:id", catalogH.DeleteCategory)
		}

		inv := api.Group("/inventory", screen("/inventory/stock-levels"))
		{
			inv.GET("/stock", inventoryH.StockLevels)
			inv.GET("/movements", inventoryH.Movements)
			inv.POST("/adjust", inventoryH.Adjust)
		}

		customers := api.Group("/customers", screen("/people/customers"))
		{
			customers.GET("", catalogH.ListCustomers)
			customers.POST("", catalogH.CreateCustomer)
			customers.PUT("/:id", catalogH.UpdateCustomer)
			customers.DELETE("/:id", catalogH.DeleteCustomer)
		}

		// Employees is the read-only view of the same accounts.
		api.GET("/employees", screen("/people/employees"), catalogH.ListUsers)
		users := api.Group("/users", screen("/people/users"))
		{
			users.GET("", catalogH.ListUsers)
			users.POST("", catalogH.CreateUser)
			users.PUT("/:id", catalogH.UpdateUser)
			users.DELETE("/:id", catalogH.DeleteUser)
		}

		suppliers := api.Group("/suppliers", screen("/purchasing/suppliers"))
		{
			suppliers.GET("", catalogH.ListSuppliers)
			suppliers.POST("", catalogH.CreateSupplier)
			suppliers.PUT("/:id", catalogH.UpdateSupplier)
			suppliers.DELETE("/:id", catalogH.DeleteSupplier)
		}

		purchaseOrders := api.Group("/purchase-orders", screen("/purchasing/purchase-orders"))
		{
			purchaseOrders.GET("", catalogH.ListPurchaseOrders)
			purchaseOrders.POST("", catalogH.CreatePurchaseOrder)
		}

		reports := api.Group("/reports")
		{
			reports.GET("/dashboard", screen("/"), reportH.Dashboard)
			reports.GET("/sales", screen("/reports/sales"), reportH.Sales)
			reports.GET("/sales/export", screen("/reports/sales"), reportH.ExportSales)
			reports.GET("/profit-loss", screen("/reports"), reportH.ProfitLoss)
			reports.GET("/activity", screen("/reports/activity"), reportH.Activity)
		}
		api.GET("/orders", screen("/reports/sales"), catalogH.ListOrders)

		settings := api.Group("/settings")
		{
			settings.GET("/branch", screen("/settings/branch"), settingsH.Branch)
			settings.GET("/receipts", screen("/settings/receipts"), settingsH.Receipts)
		}

		if d.Redis != nil {
			jobsH := handler.NewJobsHandler(d.Redis)
			jobs := api.Group("/jobs/dlq", screen("/settings"))
			{
				jobs.GET("", jobsH.Summary)
				jobs.GET("/:queue", jobsH.Peek)
				jobs.POST("/:queue/replay", jobsH.Replay)
			}
		}
	}

	if d.Hub != nil {
		r.GET("/ws", middleware.RequireSession(policy), handler.LiveFeed(d.Hub))
	}

	// Swagger UI outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
