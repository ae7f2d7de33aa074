package app

import (
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/repos"
)

type Repos struct {
	User         repos.UserRepo
	UserToken    repos.UserTokenRepo
	Subscription repos.SubscriptionRepo
	Member       repos.MemberRepo
	Category     repos.CategoryRepo
	Unit         repos.UnitRepo
	Item         repos.ItemRepo
	ItemPrice    repos.ItemPriceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		UserToken:    repos.NewUserTokenRepo(db, log),
		Subscription: repos.NewSubscriptionRepo(db, log),
		Member:       repos.NewMemberRepo(db, log),
		Category:     repos.NewCategoryRepo(db, log),
		Unit:         repos.NewUnitRepo(db, log),
		Item:         repos.NewItemRepo(db, log),
		ItemPrice:    repos.NewItemPriceRepo(db, log),
	}
}
