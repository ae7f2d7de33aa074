package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/types"
)

type ItemPriceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, price *types.ItemPrice) (*types.ItemPrice, error)
	CreateMany(ctx context.Context, tx *gorm.DB, prices []*types.ItemPrice) ([]*types.ItemPrice, error)
	GetByID(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) (*types.ItemPrice, error)
	CountByItemID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, price *types.ItemPrice) (*types.ItemPrice, error)
	Delete(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) error
	DeleteByItemID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
}

type itemPriceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemPriceRepo(db *gorm.DB, baseLog *logger.Logger) ItemPriceRepo {
	repoLog := baseLog.With("repo", "ItemPriceRepo")
	return &itemPriceRepo{db: db, log: repoLog}
}

func (pr *itemPriceRepo) Create(ctx context.Context, tx *gorm.DB, price *types.ItemPrice) (*types.ItemPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(price).Error; err != nil {
		return nil, err
	}
	return price, nil
}

func (pr *itemPriceRepo) CreateMany(ctx context.Context, tx *gorm.DB, prices []*types.ItemPrice) ([]*types.ItemPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(prices) == 0 {
		return []*types.ItemPrice{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

func (pr *itemPriceRepo) GetByID(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) (*types.ItemPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.ItemPrice
	if err := transaction.WithContext(ctx).
		Where("id = ?", priceID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (pr *itemPriceRepo) CountByItemID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ItemPrice{}).
		Where("item_id = ?", itemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (pr *itemPriceRepo) Update(ctx context.Context, tx *gorm.DB, price *types.ItemPrice) (*types.ItemPrice, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Save(price).Error; err != nil {
		return nil, err
	}
	return price, nil
}

func (pr *itemPriceRepo) Delete(ctx context.Context, tx *gorm.DB, priceID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", priceID).
		Delete(&types.ItemPrice{}).Error
}

func (pr *itemPriceRepo) DeleteByItemID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&types.ItemPrice{}).Error
}
