package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/types"
)

type SubscriptionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sub *types.Subscription) (*types.Subscription, error)
	GetByID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (*types.Subscription, error)
	GetByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*types.Subscription, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	repoLog := baseLog.With("repo", "SubscriptionRepo")
	return &subscriptionRepo{db: db, log: repoLog}
}

func (sr *subscriptionRepo) Create(ctx context.Context, tx *gorm.DB, sub *types.Subscription) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

func (sr *subscriptionRepo) GetByID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Subscription
	if err := transaction.WithContext(ctx).
		Where("id = ?", subID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (sr *subscriptionRepo) GetByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (*types.Subscription, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var result types.Subscription
	if err := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
