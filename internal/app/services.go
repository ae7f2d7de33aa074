package app

import (
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/services"
)

type Services struct {
	Access services.AccessService
	Auth   services.AuthService
	User   services.UserService
	Member services.MemberService
	Lookup services.LookupService
	Price  services.PriceService
	Item   services.ItemService
	Query  services.QueryService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")
	access := services.NewAccessService(db, log, r.Subscription, r.Member)
	lookup := services.NewLookupService(db, log, r.Category, r.Unit, r.Item)
	price := services.NewPriceService(db, log, r.Item, r.ItemPrice)
	return Services{
		Access: access,
		Auth:   services.NewAuthService(db, log, r.User, r.Subscription, r.UserToken, access, cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		User:   services.NewUserService(db, log, r.User, r.Subscription, access),
		Member: services.NewMemberService(db, log, r.User, r.Subscription, r.Member),
		Lookup: lookup,
		Price:  price,
		Item:   services.NewItemService(db, log, r.Item, r.Subscription, lookup, price),
		Query:  services.NewQueryService(db, log, r.Item),
	}
}
