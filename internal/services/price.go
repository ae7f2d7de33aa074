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

// PriceInput is one observed store price supplied by a caller.
type PriceInput struct {
	Price float64 `json:"price"`
	Store string  `json:"store,omitempty"`
}

// UpdatePriceRequest carries a partial price update; nil means "unchanged".
type UpdatePriceRequest struct {
	Price *float64 `json:"price,omitempty"`
	Store *string  `json:"store,omitempty"`
}

// PriceService is the bounded price ledger: an item holds at most
// types.MaxPricesPerItem observed prices at any time.
type PriceService interface {
	Add(ctx context.Context, itemID uuid.UUID, input PriceInput) (*types.ItemPrice, error)
	Update(ctx context.Context, itemID uuid.UUID, priceID uuid.UUID, req UpdatePriceRequest) (*types.ItemPrice, error)
	Delete(ctx context.Context, itemID uuid.UUID, priceID uuid.UUID) error
	ReplaceAll(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, prices []PriceInput) error
}

type priceService struct {
	db        *gorm.DB
	log       *logger.Logger
	itemRepo  repos.ItemRepo
	priceRepo repos.ItemPriceRepo
}

func NewPriceService(db *gorm.DB, log *logger.Logger, itemRepo repos.ItemRepo, priceRepo repos.ItemPriceRepo) PriceService {
	serviceLog := log.With("service", "PriceService")
	return &priceService{
		db:        db,
		log:       serviceLog,
		itemRepo:  itemRepo,
		priceRepo: priceRepo,
	}
}

func (ps *priceService) Add(ctx context.Context, itemID uuid.UUID, input PriceInput) (*types.ItemPrice, error) {
	if input.Price < 0 {
		return nil, apperr.Validationf("price must be a non-negative number")
	}

	var created *types.ItemPrice
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := ps.itemRepo.GetByID(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("failed to fetch item: %w", err)
		}
		if item == nil {
			return apperr.NotFoundf("item not found")
		}
		count, err := ps.priceRepo.CountByItemID(ctx, tx, itemID)
		if err != nil {
			return fmt.Errorf("failed to count item prices: %w", err)
		}
		if count >= types.MaxPricesPerItem {
			return apperr.Capacityf("maximum of %d prices allowed per item; delete an existing price before adding a new one", types.MaxPricesPerItem)
		}
		created, err = ps.priceRepo.Create(ctx, tx, &types.ItemPrice{
			ID:     uuid.New(),
			ItemID: itemID,
			Price:  input.Price,
			Store:  input.Store,
		})
		if err != nil {
			return fmt.Errorf("failed to create item price: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits one price row. The row must belong to itemID; a price id
// paired with someone else's item is treated as unknown.
func (ps *priceService) Update(ctx context.Context, itemID uuid.UUID, priceID uuid.UUID, req UpdatePriceRequest) (*types.ItemPrice, error) {
	if req.Price == nil && req.Store == nil {
		return nil, apperr.Validationf("at least one field (price or store) must be provided")
	}
	if req.Price != nil && *req.Price < 0 {
		return nil, apperr.Validationf("price must be a non-negative number")
	}

	price, err := ps.priceRepo.GetByID(ctx, nil, priceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch price record: %w", err)
	}
	if price == nil || price.ItemID != itemID {
		return nil, apperr.NotFoundf("price record not found")
	}
	if req.Price != nil {
		price.Price = *req.Price
	}
	if req.Store != nil {
		price.Store = *req.Store
	}
	updated, err := ps.priceRepo.Update(ctx, nil, price)
	if err != nil {
		return nil, fmt.Errorf("failed to update price record: %w", err)
	}
	return updated, nil
}

func (ps *priceService) Delete(ctx context.Context, itemID uuid.UUID, priceID uuid.UUID) error {
	price, err := ps.priceRepo.GetByID(ctx, nil, priceID)
	if err != nil {
		return fmt.Errorf("failed to fetch price record: %w", err)
	}
	if price == nil || price.ItemID != itemID {
		return apperr.NotFoundf("price record not found")
	}
	if err := ps.priceRepo.Delete(ctx, nil, priceID); err != nil {
		return fmt.Errorf("failed to delete price record: %w", err)
	}
	return nil
}

// ReplaceAll swaps the item's full price set, delete-all-then-insert. It must
// run inside the caller's transaction so the item is never observed
// priceless on partial failure; tx is therefore required, not optional.
func (ps *priceService) ReplaceAll(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, prices []PriceInput) error {
	if tx == nil {
		return fmt.Errorf("ReplaceAll requires a transaction")
	}
	if len(prices) > types.MaxPricesPerItem {
		return apperr.Capacityf("you can have a maximum of %d prices", types.MaxPricesPerItem)
	}
	for _, p := range prices {
		if p.Price < 0 {
			return apperr.Validationf("price must be a non-negative number")
		}
	}
	if err := ps.priceRepo.DeleteByItemID(ctx, tx, itemID); err != nil {
		return fmt.Errorf("failed to delete existing prices: %w", err)
	}
	if len(prices) == 0 {
		return nil
	}
	rows := make([]*types.ItemPrice, len(prices))
	for i, p := range prices {
		rows[i] = &types.ItemPrice{
			ID:     uuid.New(),
			ItemID: itemID,
			Price:  p.Price,
			Store:  p.Store,
		}
	}
	if _, err := ps.priceRepo.CreateMany(ctx, tx, rows); err != nil {
		return fmt.Errorf("failed to insert replacement prices: %w", err)
	}
	return nil
}
