package types

import (
	"time"

	"github.com/google/uuid"
)

const MaxPricesPerItem = 3

type Item struct {
	ID             uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SubscriptionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"subscription_id"`
	Subscription   *Subscription `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubscriptionID;references:ID" json:"subscription,omitempty"`
	CategoryID     *uuid.UUID    `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category       *Category     `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	UnitID         *uuid.UUID    `gorm:"type:uuid;index" json:"unit_id,omitempty"`
	Unit           *Unit         `gorm:"constraint:OnDelete:SET NULL;foreignKey:UnitID;references:ID" json:"unit,omitempty"`
	Name           string        `gorm:"column:name;not null" json:"name"`
	Quantity       int           `gorm:"column:quantity;not null;default:1" json:"quantity"`
	ShouldBuy      bool          `gorm:"column:should_buy;not null;default:true" json:"should_buy"`
	CurrentStock   *StockLevel   `gorm:"column:current_stock;type:varchar(10)" json:"current_stock,omitempty"`
	Prices         []ItemPrice   `gorm:"foreignKey:ItemID;references:ID" json:"prices"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

func (Item) TableName() string { return "item" }

// ItemPrice is one observed store price. An item owns at most
// MaxPricesPerItem of these; the limit is enforced by the price service.
type ItemPrice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	Item      *Item     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ItemID;references:ID" json:"item,omitempty"`
	Price     float64   `gorm:"column:price;not null" json:"price"`
	Store     string    `gorm:"column:store" json:"store,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ItemPrice) TableName() string { return "item_price" }
