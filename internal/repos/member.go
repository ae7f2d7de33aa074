package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/types"
)

type MemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, member *types.SubscriptionMember) (*types.SubscriptionMember, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SubscriptionMember, error)
	ListBySubscriptionID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) ([]*types.SubscriptionMember, error)
	Update(ctx context.Context, tx *gorm.DB, member *types.SubscriptionMember) (*types.SubscriptionMember, error)
}

type memberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemberRepo(db *gorm.DB, baseLog *logger.Logger) MemberRepo {
	repoLog := baseLog.With("repo", "MemberRepo")
	return &memberRepo{db: db, log: repoLog}
}

func (mr *memberRepo) Create(ctx context.Context, tx *gorm.DB, member *types.SubscriptionMember) (*types.SubscriptionMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Create(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

func (mr *memberRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.SubscriptionMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var result types.SubscriptionMember
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (mr *memberRepo) ListBySubscriptionID(ctx context.Context, tx *gorm.DB, subID uuid.UUID) ([]*types.SubscriptionMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.SubscriptionMember
	if err := transaction.WithContext(ctx).
		Where("subscription_id = ?", subID).
		Preload("User").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memberRepo) Update(ctx context.Context, tx *gorm.DB, member *types.SubscriptionMember) (*types.SubscriptionMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Save(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}
