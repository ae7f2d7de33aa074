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

// LookupDeleteResult reports a lookup-table deletion: which row went away
// and how many items had their reference cleared to "none".
type LookupDeleteResult struct {
	DeletedID     uuid.UUID `json:"deleted_id"`
	AffectedItems int64     `json:"affected_items"`
}

// LookupService maintains the per-subscription category and unit tables.
// Names are deduplicated under trim+lowercase normalization; resolution is
// find-or-create and safe to call concurrently for the same new name (the
// storage uniqueness index arbitrates, the loser retries its lookup).
type LookupService interface {
	ResolveCategory(ctx context.Context, tx *gorm.DB, subID uuid.UUID, rawName string) (*types.Category, error)
	ResolveUnit(ctx context.Context, tx *gorm.DB, subID uuid.UUID, rawName string) (*types.Unit, error)
	CreateCategory(ctx context.Context, subID uuid.UUID, rawName string) (*types.Category, error)
	CreateUnit(ctx context.Context, subID uuid.UUID, rawName string) (*types.Unit, error)
	RenameCategory(ctx context.Context, categoryID uuid.UUID, newName string, subID uuid.UUID) (*types.Category, error)
	RenameUnit(ctx context.Context, unitID uuid.UUID, newName string, subID uuid.UUID) (*types.Unit, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID, subID uuid.UUID) (*LookupDeleteResult, error)
	DeleteUnit(ctx context.Context, unitID uuid.UUID, subID uuid.UUID) (*LookupDeleteResult, error)
	ListCategories(ctx context.Context, subID uuid.UUID) ([]types.LookupWithCount, error)
	ListUnits(ctx context.Context, subID uuid.UUID) ([]types.LookupWithCount, error)
	BulkCreateCategories(ctx context.Context, subID uuid.UUID, rawNames []string) (created int, existing int, err error)
	CleanupOrphanedCategories(ctx context.Context, subID uuid.UUID) (int64, error)
	CleanupOrphanedUnits(ctx context.Context, subID uuid.UUID) (int64, error)
}

type lookupService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo repos.CategoryRepo
	unitRepo     repos.UnitRepo
	itemRepo     repos.ItemRepo
}

func NewLookupService(db *gorm.DB, log *logger.Logger, categoryRepo repos.CategoryRepo, unitRepo repos.UnitRepo, itemRepo repos.ItemRepo) LookupService {
	serviceLog := log.With("service", "LookupService")
	return &lookupService{
		db:           db,
		log:          serviceLog,
		categoryRepo: categoryRepo,
		unitRepo:     unitRepo,
		itemRepo:     itemRepo,
	}
}

// NormalizeLookupName trims and lower-cases a raw category/unit name.
func NormalizeLookupName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func (ls *lookupService) ResolveCategory(ctx context.Context, tx *gorm.DB, subID uuid.UUID, rawName string) (*types.Category, error) {
	name := NormalizeLookupName(rawName)
	if name == "" {
		return nil, apperr.Validationf("category name cannot be empty")
	}
	found, err := ls.categoryRepo.GetByName(ctx, tx, subID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
	}
	if found != nil {
		return found, nil
	}
	// A concurrent caller may create the same name first. A savepoint keeps
	// the unique-index violation from aborting the enclosing transaction
	// (Postgres poisons it otherwise), so the loser can retry as a lookup.
	if tx != nil {
		if err := tx.SavePoint("resolve_category").Error; err != nil {
			return nil, fmt.Errorf("failed to set savepoint: %w", err)
		}
	}
	created, createErr := ls.categoryRepo.Create(ctx, tx, &types.Category{
		ID:             uuid.New(),
		SubscriptionID: subID,
		Name:           name,
	})
	if createErr == nil {
		return created, nil
	}
	if tx != nil {
		if err := tx.RollbackTo("resolve_category").Error; err != nil {
			return nil, fmt.Errorf("failed to roll back to savepoint: %w", err)
		}
	}
	found, err = ls.categoryRepo.GetByName(ctx, tx, subID, name)
	if err == nil && found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("failed to create category %q: %w", name, createErr)
}

func (ls *lookupService) ResolveUnit(ctx context.Context, tx *gorm.DB, subID uuid.UUID, rawName string) (*types.Unit, error) {
	name := NormalizeLookupName(rawName)
	if name == "" {
		return nil, apperr.Validationf("unit name cannot be empty")
	}
	found, err := ls.unitRepo.GetByName(ctx, tx, subID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up unit %q: %w", name, err)
	}
	if found != nil {
		return found, nil
	}
	if tx != nil {
		if err := tx.SavePoint("resolve_unit").Error; err != nil {
			return nil, fmt.Errorf("failed to set savepoint: %w", err)
		}
	}
	created, createErr := ls.unitRepo.Create(ctx, tx, &types.Unit{
		ID:             uuid.New(),
		SubscriptionID: subID,
		Name:           name,
	})
	if createErr == nil {
		return created, nil
	}
	if tx != nil {
		if err := tx.RollbackTo("resolve_unit").Error; err != nil {
			return nil, fmt.Errorf("failed to roll back to savepoint: %w", err)
		}
	}
	found, err = ls.unitRepo.GetByName(ctx, tx, subID, name)
	if err == nil && found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("failed to create unit %q: %w", name, createErr)
}

func (ls *lookupService) CreateCategory(ctx context.Context, subID uuid.UUID, rawName string) (*types.Category, error) {
	name := NormalizeLookupName(rawName)
	if name == "" {
		return nil, apperr.Validationf("category name cannot be empty")
	}
	existing, err := ls.categoryRepo.GetByName(ctx, nil, subID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
	}
	if existing != nil {
		return nil, apperr.Conflictf("category %q already exists", name)
	}
	return ls.categoryRepo.Create(ctx, nil, &types.Category{
		ID:             uuid.New(),
		SubscriptionID: subID,
		Name:           name,
	})
}

func (ls *lookupService) CreateUnit(ctx context.Context, subID uuid.UUID, rawName string) (*types.Unit, error) {
	name := NormalizeLookupName(rawName)
	if name == "" {
		return nil, apperr.Validationf("unit name cannot be empty")
	}
	existing, err := ls.unitRepo.GetByName(ctx, nil, subID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to look up unit %q: %w", name, err)
	}
	if existing != nil {
		return nil, apperr.Conflictf("unit %q already exists", name)
	}
	return ls.unitRepo.Create(ctx, nil, &types.Unit{
		ID:             uuid.New(),
		SubscriptionID: subID,
		Name:           name,
	})
}

func (ls *lookupService) RenameCategory(ctx context.Context, categoryID uuid.UUID, newName string, subID uuid.UUID) (*types.Category, error) {
	name := NormalizeLookupName(newName)
	if name == "" {
		return nil, apperr.Validationf("category name cannot be empty")
	}
	category, err := ls.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	if category == nil {
		return nil, apperr.NotFoundf("category not found")
	}
	if category.SubscriptionID != subID {
		return nil, apperr.Accessf("category does not belong to this subscription")
	}
	conflict, err := ls.categoryRepo.GetByName(ctx, nil, subID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check category name: %w", err)
	}
	if conflict != nil && conflict.ID != categoryID {
		return nil, apperr.Conflictf("category name %q already exists", name)
	}
	category.Name = name
	return ls.categoryRepo.Update(ctx, nil, category)
}

func (ls *lookupService) RenameUnit(ctx context.Context, unitID uuid.UUID, newName string, subID uuid.UUID) (*types.Unit, error) {
	name := NormalizeLookupName(newName)
	if name == "" {
		return nil, apperr.Validationf("unit name cannot be empty")
	}
	unit, err := ls.unitRepo.GetByID(ctx, nil, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}
	if unit == nil {
		return nil, apperr.NotFoundf("unit not found")
	}
	if unit.SubscriptionID != subID {
		return nil, apperr.Accessf("unit does not belong to this subscription")
	}
	conflict, err := ls.unitRepo.GetByName(ctx, nil, subID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check unit name: %w", err)
	}
	if conflict != nil && conflict.ID != unitID {
		return nil, apperr.Conflictf("unit name %q already exists", name)
	}
	unit.Name = name
	return ls.unitRepo.Update(ctx, nil, unit)
}

// DeleteCategory removes the category and clears the reference on every item
// that pointed at it. Items are never cascade-deleted.
func (ls *lookupService) DeleteCategory(ctx context.Context, categoryID uuid.UUID, subID uuid.UUID) (*LookupDeleteResult, error) {
	category, err := ls.categoryRepo.GetByID(ctx, nil, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch category: %w", err)
	}
	if category == nil {
		return nil, apperr.NotFoundf("category not found")
	}
	if category.SubscriptionID != subID {
		return nil, apperr.Accessf("category does not belong to this subscription")
	}

	var affected int64
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := ls.itemRepo.CountByCategoryID(ctx, tx, categoryID)
		if err != nil {
			return fmt.Errorf("failed to count referencing items: %w", err)
		}
		affected = count
		if err := ls.itemRepo.ClearCategoryRefs(ctx, tx, categoryID); err != nil {
			return fmt.Errorf("failed to clear item category references: %w", err)
		}
		if err := ls.categoryRepo.Delete(ctx, tx, categoryID); err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ls.log.Info("Category deleted", "category_id", categoryID, "affected_items", affected)
	return &LookupDeleteResult{DeletedID: categoryID, AffectedItems: affected}, nil
}

func (ls *lookupService) DeleteUnit(ctx context.Context, unitID uuid.UUID, subID uuid.UUID) (*LookupDeleteResult, error) {
	unit, err := ls.unitRepo.GetByID(ctx, nil, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unit: %w", err)
	}
	if unit == nil {
		return nil, apperr.NotFoundf("unit not found")
	}
	if unit.SubscriptionID != subID {
		return nil, apperr.Accessf("unit does not belong to this subscription")
	}

	var affected int64
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := ls.itemRepo.CountByUnitID(ctx, tx, unitID)
		if err != nil {
			return fmt.Errorf("failed to count referencing items: %w", err)
		}
		affected = count
		if err := ls.itemRepo.ClearUnitRefs(ctx, tx, unitID); err != nil {
			return fmt.Errorf("failed to clear item unit references: %w", err)
		}
		if err := ls.unitRepo.Delete(ctx, tx, unitID); err != nil {
			return fmt.Errorf("failed to delete unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	ls.log.Info("Unit deleted", "unit_id", unitID, "affected_items", affected)
	return &LookupDeleteResult{DeletedID: unitID, AffectedItems: affected}, nil
}

func (ls *lookupService) ListCategories(ctx context.Context, subID uuid.UUID) ([]types.LookupWithCount, error) {
	return ls.categoryRepo.ListBySubscriptionID(ctx, nil, subID)
}

func (ls *lookupService) ListUnits(ctx context.Context, subID uuid.UUID) ([]types.LookupWithCount, error) {
	return ls.unitRepo.ListBySubscriptionID(ctx, nil, subID)
}

func (ls *lookupService) BulkCreateCategories(ctx context.Context, subID uuid.UUID, rawNames []string) (int, int, error) {
	var created, existing int
	err := ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[string]bool)
		for _, raw := range rawNames {
			name := NormalizeLookupName(raw)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			found, err := ls.categoryRepo.GetByName(ctx, tx, subID, name)
			if err != nil {
				return fmt.Errorf("failed to look up category %q: %w", name, err)
			}
			if found != nil {
				existing++
				continue
			}
			if _, err := ls.categoryRepo.Create(ctx, tx, &types.Category{
				ID:             uuid.New(),
				SubscriptionID: subID,
				Name:           name,
			}); err != nil {
				return fmt.Errorf("failed to create category %q: %w", name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return created, existing, nil
}

// CleanupOrphanedCategories is an explicit maintenance operation; the
// mutation path never removes unreferenced lookup rows on its own.
func (ls *lookupService) CleanupOrphanedCategories(ctx context.Context, subID uuid.UUID) (int64, error) {
	removed, err := ls.categoryRepo.DeleteOrphans(ctx, nil, subID)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up orphaned categories: %w", err)
	}
	return removed, nil
}

func (ls *lookupService) CleanupOrphanedUnits(ctx context.Context, subID uuid.UUID) (int64, error) {
	removed, err := ls.unitRepo.DeleteOrphans(ctx, nil, subID)
	if err != nil {
		return 0, fmt.Errorf("failed to clean up orphaned units: %w", err)
	}
	return removed, nil
}
