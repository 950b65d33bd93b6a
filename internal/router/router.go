package router

import (
	"time"

	"shopcentral/internal/config"
	"shopcentral/internal/handler"
	"shopcentral/internal/infra"
	"shopcentral/internal/middleware"
	"shopcentral/internal/model"
	"shopcentral/internal/repository"
	"shopcentral/internal/service"
	"shopcentral/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, visionCB *infra.CircuitBreaker, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	visionClient := infra.NewVisionClient(cfg.VisionSidecarURL)
	mediaClient := infra.NewMediaClient(cfg.MediaUploadURL, cfg.MediaPrivateKey, cfg.MediaFolder)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	loyaltyRepo := repository.NewLoyaltyRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, movementRepo, dispatcher)
	loyaltySvc := service.NewLoyaltyService(loyaltyRepo)
	expenseSvc := service.NewExpenseService(expenseRepo)
	checkoutSvc := service.NewCheckoutService(saleRepo, productRepo, loyaltyRepo, movementRepo, dispatcher)
	reportSvc := service.NewReportService(saleRepo, productRepo, loyaltyRepo, expenseRepo, rdb)
	catalogAISvc := service.NewCatalogAIService(visionClient, mediaClient, visionCB)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	checkoutH := handler.NewCheckoutHandler(checkoutSvc)
	loyaltyH := handler.NewLoyaltyHandler(loyaltySvc)
	expensesH := handler.NewExpensesHandler(expenseSvc)
	reportsH := handler.NewReportsHandler(reportSvc)
	catalogAIH := handler.NewCatalogAIHandler(catalogAISvc)
	priceH := handler.NewPriceCheckHandler(productRepo, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required (shelf price scanners)
	r.GET("/v1/price/:barcode", priceH.GetPriceByBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleCashier)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v1 := r.Group("/v1", jwtMW)
	{
		// Checkout and sale history — both roles
		v1.POST("/checkout", anyStaff, checkoutH.Checkout)
		v1.GET("/sales", anyStaff, checkoutH.ListSales)
		v1.GET("/sales/:id", anyStaff, checkoutH.GetSale)

		// Catalog reads — both roles (the register needs them)
		v1.GET("/products", anyStaff, productsH.ListProducts)
		v1.GET("/products/low-stock", anyStaff, productsH.ListLowStock)
		v1.GET("/products/:id", anyStaff, productsH.GetProduct)
		v1.GET("/products/:id/movements", anyStaff, productsH.ListMovements)
		// Catalog writes — admin only
		prods := v1.Group("/products", adminOnly)
		{
			prods.POST("", productsH.CreateProduct)
			prods.PATCH("/:id", productsH.UpdateProduct)
			prods.DELETE("/:id", productsH.DeactivateProduct)
			prods.POST("/:id/stock", productsH.AdjustStock)
		}

		// Loyalty — both roles (cashiers register members at the till)
		members := v1.Group("/members", anyStaff)
		{
			members.POST("", loyaltyH.CreateMember)
			members.GET("", loyaltyH.ListMembers)
			members.GET("/:id", loyaltyH.GetMember)
		}

		// Expenses and reports — admin only
		expenses := v1.Group("/expenses", adminOnly)
		{
			expenses.POST("", expensesH.CreateExpense)
			expenses.GET("", expensesH.ListExpenses)
		}
		v1.GET("/reports/summary", adminOnly, reportsH.Summary)

		// Catalog AI helpers — admin only (used while editing the catalog)
		ai := v1.Group("/ai", adminOnly)
		{
			ai.POST("/suggest-category", catalogAIH.SuggestCategory)
			ai.POST("/recognize-product", catalogAIH.RecognizeProduct)
			ai.POST("/generate-image", catalogAIH.GenerateImage)
		}
		v1.POST("/uploads/image", adminOnly, catalogAIH.UploadImage)

		// Staff accounts — admin only
		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PATCH("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
