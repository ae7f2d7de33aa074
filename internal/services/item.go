package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/logger"
	"github.com/avelars/pantrylist-backend/internal/repos"
	"github.com/avelars/pantrylist-backend/internal/types"
)

type CreateItemRequest struct {
	Name           string       `json:"name"`
	SubscriptionID uuid.UUID    `json:"subscription_id"`
	Quantity       *int         `json:"quantity,omitempty"`
	Unit           string       `json:"unit,omitempty"`
	Category       string       `json:"category,omitempty"`
	CurrentStock   string       `json:"current_stock,omitempty"`
	ShouldBuy      *bool        `json:"should_buy,omitempty"`
	Prices         []PriceInput `json:"prices,omitempty"`
}

// UpdateItemRequest carries a partial item update. Nil pointers mean "field
// not supplied". An empty Category or Unit string clears the reference,
// which is distinct from leaving the field out.
type UpdateItemRequest struct {
	Name         *string       `json:"name,omitempty"`
	Quantity     *int          `json:"quantity,omitempty"`
	Unit         *string       `json:"unit,omitempty"`
	Category     *string       `json:"category,omitempty"`
	CurrentStock *string       `json:"current_stock,omitempty"`
	ShouldBuy    *bool         `json:"should_buy,omitempty"`
	Prices       *[]PriceInput `json:"prices,omitempty"`
}

// ItemService owns item-level invariants: non-empty names unique per
// subscription (case-insensitive), the stock-level domain, quantity
// defaults, and transactional consistency across lookup resolution and
// price replacement.
type ItemService interface {
	Create(ctx context.Context, req CreateItemRequest) (*types.Item, error)
	Update(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*types.Item, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
	Get(ctx context.Context, itemID uuid.UUID, subID uuid.UUID) (*types.Item, error)
}

type itemService struct {
	db               *gorm.DB
	log              *logger.Logger
	itemRepo         repos.ItemRepo
	subscriptionRepo repos.SubscriptionRepo
	lookupService    LookupService
	priceService     PriceService
}

func NewItemService(db *gorm.DB, log *logger.Logger, itemRepo repos.ItemRepo, subscriptionRepo repos.SubscriptionRepo, lookupService LookupService, priceService PriceService) ItemService {
	serviceLog := log.With("service", "ItemService")
	return &itemService{
		db:               db,
		log:              serviceLog,
		itemRepo:         itemRepo,
		subscriptionRepo: subscriptionRepo,
		lookupService:    lookupService,
		priceService:     priceService,
	}
}

func (is *itemService) Create(ctx context.Context, req CreateItemRequest) (*types.Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validationf("item name is required")
	}
	if req.SubscriptionID == uuid.Nil {
		return nil, apperr.Validationf("subscription ID is required")
	}
	stock, ok := types.ParseStockLevel(req.CurrentStock)
	if !ok {
		return nil, apperr.Validationf("invalid stock level %q", req.CurrentStock)
	}
	if len(req.Prices) > types.MaxPricesPerItem {
		return nil, apperr.Capacityf("you can have a maximum of %d prices", types.MaxPricesPerItem)
	}

	sub, err := is.subscriptionRepo.GetByID(ctx, nil, req.SubscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if sub == nil {
		return nil, apperr.NotFoundf("subscription not found")
	}

	itemID := uuid.New()
	err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := is.itemRepo.GetByNameInsensitive(ctx, tx, req.SubscriptionID, name)
		if err != nil {
			return fmt.Errorf("failed to check for existing item: %w", err)
		}
		if existing != nil {
			return apperr.Conflictf("item %q already exists in this subscription", name)
		}

		item := &types.Item{
			ID:             itemID,
			SubscriptionID: req.SubscriptionID,
			Name:           name,
			Quantity:       1,
			ShouldBuy:      true,
			CurrentStock:   stock,
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.ShouldBuy != nil {
			item.ShouldBuy = *req.ShouldBuy
		}
		if strings.TrimSpace(req.Category) != "" {
			category, err := is.lookupService.ResolveCategory(ctx, tx, req.SubscriptionID, req.Category)
			if err != nil {
				return err
			}
			item.CategoryID = &category.ID
		}
		if strings.TrimSpace(req.Unit) != "" {
			unit, err := is.lookupService.ResolveUnit(ctx, tx, req.SubscriptionID, req.Unit)
			if err != nil {
				return err
			}
			item.UnitID = &unit.ID
		}

		if _, err := is.itemRepo.Create(ctx, tx, item); err != nil {
			return fmt.Errorf("failed to create item: %w", err)
		}
		if len(req.Prices) > 0 {
			if err := is.priceService.ReplaceAll(ctx, tx, itemID, req.Prices); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	is.log.Info("Item created", "item_id", itemID, "subscription_id", req.SubscriptionID)
	return is.itemRepo.GetJoinedByID(ctx, nil, itemID)
}

func (is *itemService) Update(ctx context.Context, itemID uuid.UUID, req UpdateItemRequest) (*types.Item, error) {
	hasField := req.Name != nil || req.Quantity != nil || req.Unit != nil ||
		req.Category != nil || req.CurrentStock != nil || req.ShouldBuy != nil ||
		req.Prices != nil
	if !hasField {
		return nil, apperr.Validationf("at least one field must be informed to update the item")
	}

	var stock *types.StockLevel
	if req.CurrentStock != nil {
		parsed, ok := types.ParseStockLevel(*req.CurrentStock)
		if !ok {
			return nil, apperr.Validationf("invalid stock level %q", *req.CurrentStock)
		}
		stock = parsed
	}
	if req.Prices != nil && len(*req.Prices) > types.MaxPricesPerItem {
		return nil, apperr.Capacityf("you can have a maximum of %d prices", types.MaxPricesPerItem)
	}

	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := is.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("failed to fetch item: %w", err)
		}
		if item == nil {
			return apperr.NotFoundf("item not found")
		}

		fields := map[string]interface{}{}
		if req.Name != nil {
			newName := strings.TrimSpace(*req.Name)
			if newName == "" {
				return apperr.Validationf("item name cannot be empty")
			}
			if !strings.EqualFold(newName, item.Name) {
				existing, err := is.itemRepo.GetByNameInsensitive(ctx, tx, item.SubscriptionID, newName)
				if err != nil {
					return fmt.Errorf("failed to check for existing item: %w", err)
				}
				if existing != nil && existing.ID != itemID {
					return apperr.Conflictf("item %q already exists in this subscription", newName)
				}
			}
			fields["name"] = newName
		}
		if req.Quantity != nil {
			fields["quantity"] = *req.Quantity
		}
		if req.ShouldBuy != nil {
			fields["should_buy"] = *req.ShouldBuy
		}
		if req.CurrentStock != nil {
			fields["current_stock"] = stock
		}
		if req.Category != nil {
			if strings.TrimSpace(*req.Category) == "" {
				fields["category_id"] = nil
			} else {
				category, err := is.lookupService.ResolveCategory(ctx, tx, item.SubscriptionID, *req.Category)
				if err != nil {
					return err
				}
				fields["category_id"] = category.ID
			}
		}
		if req.Unit != nil {
			if strings.TrimSpace(*req.Unit) == "" {
				fields["unit_id"] = nil
			} else {
				unit, err := is.lookupService.ResolveUnit(ctx, tx, item.SubscriptionID, *req.Unit)
				if err != nil {
					return err
				}
				fields["unit_id"] = unit.ID
			}
		}

		if len(fields) > 0 {
			if err := is.itemRepo.UpdateFields(ctx, tx, itemID, fields); err != nil {
				return fmt.Errorf("failed to update item fields: %w", err)
			}
		}
		if req.Prices != nil {
			if err := is.priceService.ReplaceAll(ctx, tx, itemID, *req.Prices); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	is.log.Info("Item updated", "item_id", itemID)
	return is.itemRepo.GetJoinedByID(ctx, nil, itemID)
}

// Delete removes the item and its prices. Prices have no independent
// lifetime, so the cascade is explicit rather than left to the store.
func (is *itemService) Delete(ctx context.Context, itemID uuid.UUID) error {
	return is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := is.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("failed to fetch item: %w", err)
		}
		if item == nil {
			return apperr.NotFoundf("item not found")
		}
		if err := is.priceService.ReplaceAll(ctx, tx, itemID, nil); err != nil {
			return err
		}
		if err := is.itemRepo.Delete(ctx, tx, itemID); err != nil {
			return fmt.Errorf("failed to delete item: %w", err)
		}
		is.log.Info("Item deleted", "item_id", itemID)
		return nil
	})
}

func (is *itemService) Get(ctx context.Context, itemID uuid.UUID, subID uuid.UUID) (*types.Item, error) {
	item, err := is.itemRepo.GetJoinedByID(ctx, nil, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item: %w", err)
	}
	if item == nil {
		return nil, apperr.NotFoundf("item not found")
	}
	if item.SubscriptionID != subID {
		return nil, apperr.Accessf("item does not belong to this subscription")
	}
	return item, nil
}
