package types

import (
	"time"

	"github.com/google/uuid"
)

// Category and Unit are the deduplicated lookup tables shared inside a
// subscription. Names are stored trimmed and lower-cased; uniqueness per
// (subscription_id, name) is enforced by a database index.

type Category struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriptionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"subscription_id"`
	Subscription   *Subscription `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubscriptionID;references:ID" json:"subscription,omitempty"`
	Name           string        `gorm:"column:name;not null" json:"name"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "category" }

type Unit struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriptionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"subscription_id"`
	Subscription   *Subscription `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubscriptionID;references:ID" json:"subscription,omitempty"`
	Name           string        `gorm:"column:name;not null" json:"name"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Unit) TableName() string { return "unit" }

// LookupWithCount is the list-view shape: a lookup row plus how many items
// currently reference it.
type LookupWithCount struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ItemCount int64     `json:"item_count"`
}
