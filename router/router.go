package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/quickserve/config"
	"github.com/yeremiapane/quickserve/controllers"
	"github.com/yeremiapane/quickserve/database"
	"github.com/yeremiapane/quickserve/events"
	"github.com/yeremiapane/quickserve/middlewares"
	"github.com/yeremiapane/quickserve/models"
	"github.com/yeremiapane/quickserve/services"
	"github.com/yeremiapane/quickserve/utils"
	"gorm.io/gorm"
)

// SetupRouter wires the store, the order core and the HTTP surface.
func SetupRouter(db *gorm.DB, cfg *config.Config, publisher events.Publisher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(cfg.CORSOrigins))

	orderRepo := database.NewOrderRepository(db, cfg.DBTimeout)
	menuSvc := services.NewMenuService(database.NewMenuCatalog(db, cfg.DBTimeout))
	lifecycle := services.NewOrderLifecycle(orderRepo, services.NewPricingEngine(menuSvc), publisher)
	tracking := services.NewOrderTracking(orderRepo)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Inisialisasi controller
	orderCtrl := controllers.NewOrderController(lifecycle, tracking)
	menuCtrl := controllers.NewMenuController(menuSvc)
	userCtrl := controllers.NewUserController(db, tokens)
	healthCtrl := controllers.NewHealthController(orderRepo, cfg.Missing())

	submitLimiter := middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	loginLimiter := middlewares.NewRateLimiter(cfg.RateLimitRPS/5, cfg.RateLimitBurst/2)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", healthCtrl.Health)

	r.POST("/auth/login", loginLimiter.RateLimit(), userCtrl.Login)

	r.GET("/menu", menuCtrl.GetAllMenus)
	r.GET("/menu/:menu_id", menuCtrl.GetMenuByID)

	r.POST("/orders", submitLimiter.RateLimit(), orderCtrl.CreateOrder)

	// Tracking is polled; responses must never come from a cache.
	polling := r.Group("/")
	polling.Use(middlewares.NoStore())
	{
		polling.GET("/orders", orderCtrl.GetOrdersByTable)
		polling.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		polling.GET("/tables/:table_number/latest-order", orderCtrl.GetLatestForTable)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware(tokens))
	auth.Use(middlewares.RequireRole(models.RoleAdmin, models.RoleStaff, models.RoleChef))
	auth.Use(middlewares.NoStore())

	auth.GET("/profile", userCtrl.GetProfile)

	auth.GET("/orders", orderCtrl.GetOrderBoard)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)
	auth.GET("/orders/:order_id/history", orderCtrl.GetOrderHistory)

	return r
}
