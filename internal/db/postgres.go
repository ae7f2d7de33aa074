package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/types"
	"github.com/avelars/pantrylist-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "pantrylist", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
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
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	// Normalized-name uniqueness per subscription. Lookup names are stored
	// lower-cased so a plain index suffices; item names keep their display
	// casing, so the index is on lower(name).
	s.log.Info("Configuring uniqueness constraints for postgres tables...")
	constraints := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS "uniq_category_subscription_name"
		 ON "category" ("subscription_id", "name")`,
		`CREATE UNIQUE INDEX IF NOT EXISTS "uniq_unit_subscription_name"
		 ON "unit" ("subscription_id", "name")`,
		`CREATE UNIQUE INDEX IF NOT EXISTS "uniq_item_subscription_name"
		 ON "item" ("subscription_id", lower("name"))`,
	}
	for _, ddl := range constraints {
		if err := s.db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("failed to create uniqueness constraint: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
