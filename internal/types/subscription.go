package types

import (
	"time"

	"github.com/google/uuid"
)

// Subscription is the household tenant. Every catalog row hangs off one.
type Subscription struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"owner_id"`
	Owner          *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	CurrencySymbol string    `gorm:"column:currency_symbol;not null;default:'$'" json:"currency_symbol"`
	IsActive       bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}

func (Subscription) TableName() string { return "subscription" }

// SubscriptionMember links a non-owner user to a subscription.
// A user belongs to at most one subscription as a member.
type SubscriptionMember struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User           *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	SubscriptionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"subscription_id"`
	Subscription   *Subscription `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubscriptionID;references:ID" json:"subscription,omitempty"`
	CanEdit        bool          `gorm:"column:can_edit;not null;default:false" json:"can_edit"`
	IsActive       bool          `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (SubscriptionMember) TableName() string { return "subscription_member" }
