package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/types"
)

type UnitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, unit *types.Unit) (*types.Unit, error)
	GetByID(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (*types.Unit, error)
	GetByName(ctx context.Context, tx *gorm.DB, subID uuid.UUID, name string) (*types.Unit, error)
	ListBySubscriptionID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) ([]types.LookupWithCount, error)
	Update(ctx context.Context, tx *gorm.DB, unit *types.Unit) (*types.Unit, error)
	Delete(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) error
	DeleteOrphans(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (int64, error)
}

type unitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUnitRepo(db *gorm.DB, baseLog *logger.Logger) UnitRepo {
	repoLog := baseLog.With("repo", "UnitRepo")
	return &unitRepo{db: db, log: repoLog}
}

func (ur *unitRepo) Create(ctx context.Context, tx *gorm.DB, unit *types.Unit) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if err := transaction.WithContext(ctx).Create(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

func (ur *unitRepo) GetByID(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var result types.Unit
	if err := transaction.WithContext(ctx).
		Where("id = ?", unitID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

// GetByName expects a normalized (trimmed, lower-cased) name.
func (ur *unitRepo) GetByName(ctx context.Context, tx *gorm.DB, subID uuid.UUID, name string) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var result types.Unit
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

func (ur *unitRepo) ListBySubscriptionID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) ([]types.LookupWithCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	var results []types.LookupWithCount
	if err := transaction.WithContext(ctx).
		Model(&types.Unit{}).
		Select(`unit.id, unit.name, count(item.id) AS item_count`).
		Joins(`LEFT JOIN item ON item.unit_id = unit.id`).
		Where("unit.subscription_id = ?", subID).
		Group("unit.id, unit.name").
		Order("unit.name ASC").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *unitRepo) Update(ctx context.Context, tx *gorm.DB, unit *types.Unit) (*types.Unit, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if err := transaction.WithContext(ctx).Save(unit).Error; err != nil {
		return nil, err
	}
	return unit, nil
}

func (ur *unitRepo) Delete(ctx context.Context, tx *gorm.DB, unitID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", unitID).
		Delete(&types.Unit{}).Error
}

func (ur *unitRepo) DeleteOrphans(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	result := transaction.WithContext(ctx).Exec(
		`DELETE FROM "unit"
		 WHERE "subscription_id" = ?
		 AND "id" NOT IN (SELECT "unit_id" FROM "item" WHERE "unit_id" IS NOT NULL)`,
		subID,
	)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
