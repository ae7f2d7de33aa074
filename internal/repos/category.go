package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/types"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error)
	GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.Category, error)
	GetByName(ctx context.Context, tx *gorm.DB, subID uuid.UUID, name string) (*types.Category, error)
	ListBySubscriptionID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) ([]types.LookupWithCount, error)
	Update(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error)
	Delete(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error
	DeleteOrphans(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (int64, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (cr *categoryRepo) Create(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (cr *categoryRepo) GetByID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Category
	if err := transaction.WithContext(ctx).
		Where("id = ?", categoryID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// GetByName expects a normalized (trimmed, lower-cased) name.
func (cr *categoryRepo) GetByName(ctx context.Context, tx *gorm.DB, subID uuid.UUID, name string) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Category
	if err := transaction.WithContext(ctx).
		Where("subscription_id = ? AND name = ?", subID, name).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (cr *categoryRepo) ListBySubscriptionID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) ([]types.LookupWithCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []types.LookupWithCount
	if err := transaction.WithContext(ctx).
		Model(&types.Category{}).
		Select(`category.id, category.name, count(item.id) AS item_count`).
		Joins(`LEFT JOIN item ON item.category_id = category.id`).
		Where("category.subscription_id = ?", subID).
		Group("category.id, category.name").
		Order("category.name ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *categoryRepo) Update(ctx context.Context, tx *gorm.DB, category *types.Category) (*types.Category, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (cr *categoryRepo) Delete(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", categoryID).
		Delete(&types.Category{}).Error
}

func (cr *categoryRepo) DeleteOrphans(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	result := transaction.WithContext(ctx).Exec(
		`DELETE FROM "category"
		 WHERE "subscription_id" = ?
		 AND "id" NOT IN (SELECT "category_id" FROM "item" WHERE "category_id" IS NOT NULL)`,
		subID,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
