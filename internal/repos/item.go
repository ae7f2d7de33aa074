package repos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/types"
)

// ItemFilter is the AND-combined filter set for catalog listings. Nil fields
// are not applied. Category must already be normalized; Search is matched as
// a case-insensitive substring against item name or category name.
type ItemFilter struct {
	Category   *string
	ShouldBuy  *bool
	StockLevel *types.StockLevel
	Search     string
}

type ItemRepo interface {
	Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error)
	GetByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.Item, error)
	GetJoinedByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.Item, error)
	GetByNameInsensitive(ctx context.Context, tx *gorm.DB, subID uuid.UUID, name string) (*types.Item, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
	ListFiltered(ctx context.Context, tx *gorm.DB, subID uuid.UUID, filter ItemFilter) ([]types.Item, error)
	CountByCategoryID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error)
	CountByUnitID(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (int64, error)
	ClearCategoryRefs(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error
	ClearUnitRefs(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) error
}

type itemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemRepo(db *gorm.DB, baseLog *logger.Logger) ItemRepo {
	repoLog := baseLog.With("repo", "ItemRepo")
	return &itemRepo{db: db, log: repoLog}
}

// orderedPrices keeps the cheapest known price first; creation time breaks
// ties in favor of the most recent observation.
func orderedPrices(db *gorm.DB) *gorm.DB {
	return db.Order("price ASC").Order("created_at DESC")
}

func (ir *itemRepo) Create(ctx context.Context, tx *gorm.DB, item *types.Item) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if err := transaction.WithContext(ctx).Omit("Prices").Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (ir *itemRepo) GetByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Item
	if err := transaction.WithContext(ctx).
		Where("id = ?", itemID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ir *itemRepo) GetJoinedByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Item
	if err := transaction.WithContext(ctx).
		Where("id = ?", itemID).
		Preload("Prices", orderedPrices).
		Preload("Category").
		Preload("Unit").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ir *itemRepo) GetByNameInsensitive(ctx context.Context, tx *gorm.DB, subID uuid.UUID, name string) (*types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Item
	if err := transaction.WithContext(ctx).
		Where("subscription_id = ? AND LOWER(name) = ?", subID, strings.ToLower(name)).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (ir *itemRepo) UpdateFields(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("id = ?", itemID).
		Updates(fields).Error
}

func (ir *itemRepo) Delete(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&types.Item{}).Error
}

func (ir *itemRepo) ListFiltered(ctx context.Context, tx *gorm.DB, subID uuid.UUID, filter ItemFilter) ([]types.Item, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	query := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("item.subscription_id = ?", subID)

	needsCategoryJoin := filter.Category != nil || filter.Search != ""
	if needsCategoryJoin {
		query = query.Joins(`LEFT JOIN category ON category.id = item.category_id`)
	}
	if filter.Category != nil {
		query = query.Where("category.name = ?", *filter.Category)
	}
	if filter.ShouldBuy != nil {
		query = query.Where("item.should_buy = ?", *filter.ShouldBuy)
	}
	if filter.StockLevel != nil {
		query = query.Where("item.current_stock = ?", *filter.StockLevel)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("(LOWER(item.name) LIKE ? OR LOWER(category.name) LIKE ?)", pattern, pattern)
	}

	var results []types.Item
	if err := query.
		Preload("Prices", orderedPrices).
		Preload("Category").
		Preload("Unit").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *itemRepo) CountByCategoryID(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ir *itemRepo) CountByUnitID(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("unit_id = ?", unitID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ir *itemRepo) ClearCategoryRefs(ctx context.Context, tx *gorm.DB, categoryID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("category_id = ?", categoryID).
		Update("category_id", nil).Error
}

func (ir *itemRepo) ClearUnitRefs(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Item{}).
		Where("unit_id = ?", unitID).
		Update("unit_id", nil).Error
}
