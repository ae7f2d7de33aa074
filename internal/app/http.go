package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/handlers"
	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/middleware"
	"github.com/avelars/pantrylist-backend/internal/server"
)

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Member      *handlers.MemberHandler
	Item        *handlers.ItemHandler
	Price       *handlers.PriceHandler
	Category    *handlers.CategoryHandler
	Unit        *handlers.UnitHandler
	Healthcheck *handlers.HealthcheckHandler
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, services.Auth, services.Access),
	}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Auth:        handlers.NewAuthHandler(services.Auth),
		User:        handlers.NewUserHandler(services.User),
		Member:      handlers.NewMemberHandler(services.Member),
		Item:        handlers.NewItemHandler(services.Item, services.Query, services.Access),
		Price:       handlers.NewPriceHandler(services.Price, services.Item, services.Access),
		Category:    handlers.NewCategoryHandler(services.Lookup, services.Access),
		Unit:        handlers.NewUnitHandler(services.Lookup, services.Access),
		Healthcheck: handlers.NewHealthcheckHandler(db),
	}
}

func wireRouter(cfg Config, h Handlers, mw Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins,
		AuthMiddleware:     mw.Auth,
		AuthHandler:        h.Auth,
		UserHandler:        h.User,
		MemberHandler:      h.Member,
		ItemHandler:        h.Item,
		PriceHandler:       h.Price,
		CategoryHandler:    h.Category,
		UnitHandler:        h.Unit,
		HealthcheckHandler: h.Healthcheck,
	})
}
