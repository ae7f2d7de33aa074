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

const (
	defaultItemsPerPage = 10
	maxItemsPerPage     = 100
)

// ListOptions controls pagination and ordering of a catalog listing.
// Zero values fall back to page 1, 10 items per page, name ascending.
type ListOptions struct {
	Page         int    `json:"page"`
	ItemsPerPage int    `json:"items_per_page"`
	SortBy       string `json:"sort_by"`
	SortOrder    string `json:"sort_order"`
}

// ListFilters are AND-combined. Category "all" (or empty) means no category
// filter; Search matches item name or category name as a case-insensitive
// substring.
type ListFilters struct {
	Category   string `json:"category,omitempty"`
	Search     string `json:"search,omitempty"`
	ShouldBuy  *bool  `json:"should_buy,omitempty"`
	StockLevel string `json:"stock_level,omitempty"`
}

type ItemListResult struct {
	Items       []types.Item `json:"items"`
	TotalItems  int          `json:"total_items"`
	TotalPages  int          `json:"total_pages"`
	CurrentPage int          `json:"current_page"`
}

// QueryService executes filtered, custom-ordered, paginated catalog
// listings. Ordering is applied to the full filtered set before pagination,
// so page boundaries always respect the three-tier policy.
type QueryService interface {
	List(ctx context.Context, subID uuid.UUID, opts ListOptions, filters ListFilters) (*ItemListResult, error)
}

type queryService struct {
	db       *gorm.DB
	log      *logger.Logger
	itemRepo repos.ItemRepo
}

func NewQueryService(db *gorm.DB, log *logger.Logger, itemRepo repos.ItemRepo) QueryService {
	serviceLog := log.With("service", "QueryService")
	return &queryService{db: db, log: serviceLog, itemRepo: itemRepo}
}

func (qs *queryService) List(ctx context.Context, subID uuid.UUID, opts ListOptions, filters ListFilters) (*ItemListResult, error) {
	if opts.Page == 0 {
		opts.Page = 1
	}
	if opts.Page < 1 {
		return nil, apperr.Validationf("page must be >= 1")
	}
	if opts.ItemsPerPage == 0 {
		opts.ItemsPerPage = defaultItemsPerPage
	}
	if opts.ItemsPerPage < 1 || opts.ItemsPerPage > maxItemsPerPage {
		return nil, apperr.Validationf("items per page must be between 1 and %d", maxItemsPerPage)
	}

	sortBy := SortKey(opts.SortBy)
	if opts.SortBy == "" {
		sortBy = SortByName
	}
	switch sortBy {
	case SortByName, SortByCreatedAt, SortByUpdatedAt:
	default:
		return nil, apperr.Validationf("invalid sort key %q", opts.SortBy)
	}

	sortOrder := SortOrder(opts.SortOrder)
	if opts.SortOrder == "" {
		sortOrder = SortAsc
	}
	switch sortOrder {
	case SortAsc, SortDesc:
	default:
		return nil, apperr.Validationf("invalid sort order %q", opts.SortOrder)
	}

	filter := repos.ItemFilter{
		ShouldBuy: filters.ShouldBuy,
		Search:    filters.Search,
	}
	if filters.Category != "" && filters.Category != "all" {
		normalized := NormalizeLookupName(filters.Category)
		filter.Category = &normalized
	}
	if filters.StockLevel != "" {
		stock, ok := types.ParseStockLevel(filters.StockLevel)
		if !ok || stock == nil {
			return nil, apperr.Validationf("invalid stock level %q", filters.StockLevel)
		}
		filter.StockLevel = stock
	}

	items, err := qs.itemRepo.ListFiltered(ctx, nil, subID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	sortItems(items, sortBy, sortOrder)

	totalItems := len(items)
	totalPages := (totalItems + opts.ItemsPerPage - 1) / opts.ItemsPerPage

	skip := (opts.Page - 1) * opts.ItemsPerPage
	if skip > totalItems {
		skip = totalItems
	}
	take := opts.ItemsPerPage
	if skip+take > totalItems {
		take = totalItems - skip
	}
	page := items[skip : skip+take]

	return &ItemListResult{
		Items:       page,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: opts.Page,
	}, nil
}
