package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/avelars/pantrylist-backend/internal/handlers"
	"github.com/avelars/pantrylist-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins     []string
	AuthMiddleware     *middleware.AuthMiddleware
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	MemberHandler      *handlers.MemberHandler
	ItemHandler        *handlers.ItemHandler
	PriceHandler       *handlers.PriceHandler
	CategoryHandler    *handlers.CategoryHandler
	UnitHandler        *handlers.UnitHandler
	HealthcheckHandler *handlers.HealthcheckHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", cfg.HealthcheckHandler.Healthz)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.POST("/refresh", cfg.AuthHandler.Refresh)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/verify", cfg.AuthHandler.Verify)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	protected.GET("/user", cfg.UserHandler.Details)
	protected.GET("/subscription", cfg.UserHandler.Subscription)

	// Reads are open to every active subscription user.
	protected.GET("/items", cfg.ItemHandler.List)
	protected.GET("/items/:item_id", cfg.ItemHandler.Get)
	protected.GET("/categories", cfg.CategoryHandler.List)
	protected.GET("/units", cfg.UnitHandler.List)

	// Writes additionally require edit capability.
	editor := protected.Group("/")
	editor.Use(cfg.AuthMiddleware.RequireEdit())
	editor.POST("/items", cfg.ItemHandler.Create)
	editor.PUT("/items/:item_id", cfg.ItemHandler.Update)
	editor.DELETE("/items/:item_id", cfg.ItemHandler.Delete)

	editor.POST("/items/:item_id/prices", cfg.PriceHandler.Add)
	editor.PUT("/items/:item_id/prices/:price_id", cfg.PriceHandler.Update)
	editor.DELETE("/items/:item_id/prices/:price_id", cfg.PriceHandler.Delete)

	editor.POST("/categories", cfg.CategoryHandler.Create)
	editor.POST("/categories/bulk", cfg.CategoryHandler.BulkCreate)
	editor.POST("/categories/cleanup", cfg.CategoryHandler.Cleanup)
	editor.PUT("/categories/:category_id", cfg.CategoryHandler.Rename)
	editor.DELETE("/categories/:category_id", cfg.CategoryHandler.Delete)

	editor.POST("/units", cfg.UnitHandler.Create)
	editor.POST("/units/cleanup", cfg.UnitHandler.Cleanup)
	editor.PUT("/units/:unit_id", cfg.UnitHandler.Rename)
	editor.DELETE("/units/:unit_id", cfg.UnitHandler.Delete)

	// Membership management is owner-only; ownership is enforced by the
	// member service itself.
	protected.POST("/members", cfg.MemberHandler.Create)
	protected.GET("/members", cfg.MemberHandler.List)
	protected.PATCH("/members/:user_id/grant-edit", cfg.MemberHandler.GrantEdit)
	protected.PATCH("/members/:user_id/revoke-edit", cfg.MemberHandler.RevokeEdit)
	protected.PATCH("/members/:user_id/status", cfg.MemberHandler.SetActive)

	return router
}
