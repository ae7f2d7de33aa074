package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/repos"
	"github.com/avelars/pantrylist-backend/internal/types"
)

// SubscriptionDetails is the caller-facing view of a subscription plus the
// resolved role of the requesting user.
type SubscriptionDetails struct {
	ID             uuid.UUID `json:"id"`
	CurrencySymbol string    `json:"currency_symbol"`
	IsActive       bool      `json:"is_active"`
	IsOwner        bool      `json:"is_owner"`
	CanEdit        bool      `json:"can_edit"`
}

type UserService interface {
	GetDetails(ctx context.Context, userID uuid.UUID) (*types.User, error)
	GetSubscription(ctx context.Context, userID uuid.UUID) (*SubscriptionDetails, error)
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	subRepo       repos.SubscriptionRepo
	accessService AccessService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, subRepo repos.SubscriptionRepo, accessService AccessService) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		subRepo:       subRepo,
		accessService: accessService,
	}
}

func (us *userService) GetDetails(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFoundf("user not found")
	}
	return user, nil
}

func (us *userService) GetSubscription(ctx context.Context, userID uuid.UUID) (*SubscriptionDetails, error) {
	access, err := us.accessService.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	sub, err := us.subRepo.GetByID(ctx, nil, access.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if sub == nil {
		return nil, apperr.NotFoundf("subscription not found")
	}
	return &SubscriptionDetails{
		ID:             sub.ID,
		CurrencySymbol: sub.CurrencySymbol,
		IsActive:       sub.IsActive,
		IsOwner:        access.IsOwner,
		CanEdit:        access.CanEdit,
	}, nil
}
