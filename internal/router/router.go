package router

import (
	"time"

	"github.com/solucionesrptech/pasteleria-api/internal/config"
	"github.com/solucionesrptech/pasteleria-api/internal/handler"
	"github.com/solucionesrptech/pasteleria-api/internal/infra"
	"github.com/solucionesrptech/pasteleria-api/internal/middleware"
	"github.com/solucionesrptech/pasteleria-api/internal/model"
	"github.com/solucionesrptech/pasteleria-api/internal/repository"
	"github.com/solucionesrptech/pasteleria-api/internal/service"
	"github.com/solucionesrptech/pasteleria-api/internal/token"
	"github.com/solucionesrptech/pasteleria-api/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, payments *infra.MockPaymentProvider, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	cache := infra.NewProductCache(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	txm := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	movementRepo := repository.NewMovementRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	catalogSvc := service.NewCatalogService(productRepo, cache)
	inventorySvc := service.NewInventoryService(txm, productRepo, movementRepo, cache, cfg.InventoryMaxAdjust)
	orderSvc := service.NewOrderService(txm, orderRepo, productRepo, movementRepo, payments, token.NewSource(), cache, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(catalogSvc)
	ordersH := handler.NewOrdersHandler(orderSvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc, cfg.LowStockThreshold)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, payments))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Storefront — no auth required: browse the catalog, place an order,
	// look an order up by its public token.
	r.GET("/v1/products", productsH.List)
	r.GET("/v1/products/:id", productsH.Get)
	r.POST("/v1/orders", ordersH.Create)
	r.GET("/v1/orders/token/:token", ordersH.GetByToken)

	// Back-office routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	admin := middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin)
	v1 := r.Group("/v1", jwtMW, admin)
	{
		prods := v1.Group("/products")
		{
			prods.POST("", productsH.Create)
			prods.PUT("/:id", productsH.Update)
			prods.DELETE("/:id", productsH.Deactivate)
			prods.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		v1.GET("/orders", ordersH.List)
		v1.GET("/orders/summary", ordersH.Summary)

		inv := v1.Group("/inventory")
		{
			inv.POST("/adjust", inventoryH.Adjust)
			inv.GET("/movements", inventoryH.Movements)
			inv.GET("/low-stock", inventoryH.LowStock)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
