package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/repos"
	"github.com/avelars/pantrylist-backend/internal/types"
)

type CreateMemberRequest struct {
	OwnerID   uuid.UUID `json:"-"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Password  string    `json:"password"`
	CanEdit   bool      `json:"can_edit"`
}

// MemberService manages the non-owner users of a subscription. Every
// operation verifies the caller owns the subscription the member belongs to.
type MemberService interface {
	Create(ctx context.Context, req CreateMemberRequest) (*types.SubscriptionMember, error)
	GrantEdit(ctx context.Context, ownerID, memberUserID uuid.UUID) (*types.SubscriptionMember, error)
	RevokeEdit(ctx context.Context, ownerID, memberUserID uuid.UUID) (*types.SubscriptionMember, error)
	SetActive(ctx context.Context, ownerID, memberUserID uuid.UUID, isActive bool) (*types.SubscriptionMember, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*types.SubscriptionMember, error)
}

type memberService struct {
	db               *gorm.DB
	log              *logger.Logger
	userRepo         repos.UserRepo
	subscriptionRepo repos.SubscriptionRepo
	memberRepo       repos.MemberRepo
}

func NewMemberService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, subscriptionRepo repos.SubscriptionRepo, memberRepo repos.MemberRepo) MemberService {
	serviceLog := log.With("service", "MemberService")
	return &memberService{
		db:               db,
		log:              serviceLog,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		memberRepo:       memberRepo,
	}
}

func (ms *memberService) ownedSubscription(ctx context.Context, ownerID uuid.UUID) (*types.Subscription, error) {
	sub, err := ms.subscriptionRepo.GetByOwnerID(ctx, nil, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if sub == nil {
		return nil, apperr.Accessf("only the subscription owner can manage members")
	}
	return sub, nil
}

func (ms *memberService) Create(ctx context.Context, req CreateMemberRequest) (*types.SubscriptionMember, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || strings.TrimSpace(req.FirstName) == "" {
		return nil, apperr.Validationf("email, password and first name are required")
	}

	sub, err := ms.ownedSubscription(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	exists, err := ms.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user email: %w", err)
	}
	if exists {
		return nil, apperr.Conflictf("email is already in use")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var member *types.SubscriptionMember
	err = ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := ms.userRepo.Create(ctx, tx, &types.User{
			ID:        uuid.New(),
			Email:     email,
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Password:  string(hashed),
		})
		if err != nil {
			return fmt.Errorf("failed to create member user: %w", err)
		}
		member, err = ms.memberRepo.Create(ctx, tx, &types.SubscriptionMember{
			ID:             uuid.New(),
			UserID:         user.ID,
			SubscriptionID: sub.ID,
			CanEdit:        req.CanEdit,
			IsActive:       true,
		})
		if err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}
		member.User = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	ms.log.Info("Member created", "subscription_id", sub.ID, "member_user_id", member.UserID)
	return member, nil
}

func (ms *memberService) memberOfOwner(ctx context.Context, ownerID, memberUserID uuid.UUID) (*types.SubscriptionMember, error) {
	sub, err := ms.ownedSubscription(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	member, err := ms.memberRepo.GetByUserID(ctx, nil, memberUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch membership: %w", err)
	}
	if member == nil {
		return nil, apperr.NotFoundf("member not found")
	}
	if member.SubscriptionID != sub.ID {
		return nil, apperr.Accessf("member does not belong to your subscription")
	}
	return member, nil
}

func (ms *memberService) GrantEdit(ctx context.Context, ownerID, memberUserID uuid.UUID) (*types.SubscriptionMember, error) {
	member, err := ms.memberOfOwner(ctx, ownerID, memberUserID)
	if err != nil {
		return nil, err
	}
	member.CanEdit = true
	return ms.memberRepo.Update(ctx, nil, member)
}

func (ms *memberService) RevokeEdit(ctx context.Context, ownerID, memberUserID uuid.UUID) (*types.SubscriptionMember, error) {
	member, err := ms.memberOfOwner(ctx, ownerID, memberUserID)
	if err != nil {
		return nil, err
	}
	member.CanEdit = false
	return ms.memberRepo.Update(ctx, nil, member)
}

// SetActive toggles a membership. Deactivation always revokes the edit flag.
func (ms *memberService) SetActive(ctx context.Context, ownerID, memberUserID uuid.UUID, isActive bool) (*types.SubscriptionMember, error) {
	member, err := ms.memberOfOwner(ctx, ownerID, memberUserID)
	if err != nil {
		return nil, err
	}
	member.IsActive = isActive
	if !isActive {
		member.CanEdit = false
	}
	return ms.memberRepo.Update(ctx, nil, member)
}

func (ms *memberService) List(ctx context.Context, ownerID uuid.UUID) ([]*types.SubscriptionMember, error) {
	sub, err := ms.ownedSubscription(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return ms.memberRepo.ListBySubscriptionID(ctx, nil, sub.ID)
}
