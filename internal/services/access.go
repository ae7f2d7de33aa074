package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/repos"
)

// SubscriptionAccess is the resolved role of a user inside their
// subscription. Owners can always edit; members only while active and
// explicitly flagged.
type SubscriptionAccess struct {
	SubscriptionID uuid.UUID `json:"subscription_id"`
	IsOwner        bool      `json:"is_owner"`
	CanEdit        bool      `json:"can_edit"`
}

// AccessService resolves a user to their subscription role. It is the only
// place edit capability is derived; mutating engine entry points expect the
// check to have already happened.
type AccessService interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*SubscriptionAccess, error)
}

type accessService struct {
	db               *gorm.DB
	log              *logger.Logger
	subscriptionRepo repos.SubscriptionRepo
	memberRepo       repos.MemberRepo
}

func NewAccessService(db *gorm.DB, log *logger.Logger, subscriptionRepo repos.SubscriptionRepo, memberRepo repos.MemberRepo) AccessService {
	serviceLog := log.With("service", "AccessService")
	return &accessService{
		db:               db,
		log:              serviceLog,
		subscriptionRepo: subscriptionRepo,
		memberRepo:       memberRepo,
	}
}

func (as *accessService) Resolve(ctx context.Context, userID uuid.UUID) (*SubscriptionAccess, error) {
	owned, err := as.subscriptionRepo.GetByOwnerID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch owned subscription: %w", err)
	}
	if owned != nil {
		return &SubscriptionAccess{
			SubscriptionID: owned.ID,
			IsOwner:        true,
			CanEdit:        true,
		}, nil
	}

	member, err := as.memberRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch membership: %w", err)
	}
	if member == nil {
		return nil, apperr.NotFoundf("no subscription found for this user")
	}
	return &SubscriptionAccess{
		SubscriptionID: member.SubscriptionID,
		IsOwner:        false,
		CanEdit:        member.IsActive && member.CanEdit,
	}, nil
}
