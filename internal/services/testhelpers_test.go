package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/repos"
	"github.com/avelars/pantrylist-backend/internal/types"
)

// newTestDB opens a uniquely named shared in-memory database so every test
// gets isolated state while gorm's pool still sees one store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Subscription{},
		&types.SubscriptionMember{},
		&types.Category{},
		&types.Unit{},
		&types.Item{},
		&types.ItemPrice{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	constraints := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS "uniq_category_subscription_name" ON "category" ("subscription_id", "name")`,
		`CREATE UNIQUE INDEX IF NOT EXISTS "uniq_unit_subscription_name" ON "unit" ("subscription_id", "name")`,
		`CREATE UNIQUE INDEX IF NOT EXISTS "uniq_item_subscription_name" ON "item" ("subscription_id", lower("name"))`,
	}
	for _, ddl := range constraints {
		if err := db.Exec(ddl).Error; err != nil {
			t.Fatalf("create index: %v", err)
		}
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

type testEnv struct {
	db     *gorm.DB
	log    *logger.Logger
	repos  testRepos
	lookup LookupService
	price  PriceService
	item   ItemService
	query  QueryService
	access AccessService
	member MemberService
	auth   AuthService
	user   UserService
}

type testRepos struct {
	user         repos.UserRepo
	userToken    repos.UserTokenRepo
	subscription repos.SubscriptionRepo
	member       repos.MemberRepo
	category     repos.CategoryRepo
	unit         repos.UnitRepo
	item         repos.ItemRepo
	itemPrice    repos.ItemPriceRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	r := testRepos{
		user:         repos.NewUserRepo(db, log),
		userToken:    repos.NewUserTokenRepo(db, log),
		subscription: repos.NewSubscriptionRepo(db, log),
		member:       repos.NewMemberRepo(db, log),
		category:     repos.NewCategoryRepo(db, log),
		unit:         repos.NewUnitRepo(db, log),
		item:         repos.NewItemRepo(db, log),
		itemPrice:    repos.NewItemPriceRepo(db, log),
	}
	lookup := NewLookupService(db, log, r.category, r.unit, r.item)
	price := NewPriceService(db, log, r.item, r.itemPrice)
	access := NewAccessService(db, log, r.subscription, r.member)
	return &testEnv{
		db:     db,
		log:    log,
		repos:  r,
		lookup: lookup,
		price:  price,
		item:   NewItemService(db, log, r.item, r.subscription, lookup, price),
		query:  NewQueryService(db, log, r.item),
		access: access,
		member: NewMemberService(db, log, r.user, r.subscription, r.member),
		auth:   NewAuthService(db, log, r.user, r.subscription, r.userToken, access, "test-secret", time.Hour, 24*time.Hour),
		user:   NewUserService(db, log, r.user, r.subscription, access),
	}
}

func itemFilterAll() repos.ItemFilter {
	return repos.ItemFilter{}
}

// seedOwner creates a user plus their subscription and returns both IDs.
func seedOwner(t *testing.T, env *testEnv, email string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Test",
		LastName:  "Owner",
		Password:  "not-a-real-hash",
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	sub := &types.Subscription{
		ID:             uuid.New(),
		OwnerID:        user.ID,
		CurrencySymbol: "$",
		IsActive:       true,
	}
	if err := env.db.Create(sub).Error; err != nil {
		t.Fatalf("seed subscription: %v", err)
	}
	return user.ID, sub.ID
}

// seedMember creates a user and attaches them to the subscription.
func seedMember(t *testing.T, env *testEnv, subID uuid.UUID, email string, canEdit bool) uuid.UUID {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "Test",
		LastName:  "Member",
		Password:  "not-a-real-hash",
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("seed member user: %v", err)
	}
	member := &types.SubscriptionMember{
		ID:             uuid.New(),
		UserID:         user.ID,
		SubscriptionID: subID,
		CanEdit:        canEdit,
		IsActive:       true,
	}
	if err := env.db.Create(member).Error; err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return user.ID
}
