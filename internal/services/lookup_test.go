package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/avelars/pantrylist-backend/internal/repos"
	"github.com/avelars/pantrylist-backend/internal/types"
)

func TestNormalizeLookupName(t *testing.T) {
	cases := map[string]string{
		"  Fruits ": "fruits",
		"KG":        "kg",
		"dairy":     "dairy",
		"   ":       "",
	}
	for in, want := range cases {
		if got := NormalizeLookupName(in); got != want {
			t.Fatalf("NormalizeLookupName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestResolveCategory_IsIdempotentAcrossCasing(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	first, err := env.lookup.ResolveCategory(ctx, nil, subID, "Rice")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := env.lookup.ResolveCategory(ctx, nil, subID, "  rice ")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same category, got %s and %s", first.ID, second.ID)
	}
	if first.Name != "rice" {
		t.Fatalf("expected stored name %q, got %q", "rice", first.Name)
	}
}

// racedCategoryRepo reports a miss on the first lookup so resolution takes
// the create branch against a row another caller already inserted.
type racedCategoryRepo struct {
	repos.CategoryRepo
	misses int
}

func (r *racedCategoryRepo) GetByName(ctx context.Context, tx *gorm.DB, subID uuid.UUID, name string) (*types.Category, error) {
	if r.misses > 0 {
		r.misses--
		return nil, nil
	}
	return r.CategoryRepo.GetByName(ctx, tx, subID, name)
}

func TestResolveCategory_LostInsertRaceRetriesAsLookup(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	winner, err := env.lookup.ResolveCategory(ctx, nil, subID, "dairy")
	if err != nil {
		t.Fatalf("seed winner: %v", err)
	}

	raced := &racedCategoryRepo{CategoryRepo: env.repos.category, misses: 1}
	svc := NewLookupService(env.db, env.log, raced, env.repos.unit, env.repos.item)

	var resolved *types.Category
	err = env.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rerr error
		resolved, rerr = svc.ResolveCategory(ctx, tx, subID, "Dairy")
		if rerr != nil {
			return rerr
		}
		// The rejected insert must not poison the transaction for later writes.
		_, rerr = env.repos.category.Create(ctx, tx, &types.Category{
			ID:             uuid.New(),
			SubscriptionID: subID,
			Name:           "bakery",
		})
		return rerr
	})
	if err != nil {
		t.Fatalf("resolve under race: %v", err)
	}
	if resolved.ID != winner.ID {
		t.Fatalf("expected the existing row %s, got %s", winner.ID, resolved.ID)
	}
	bakery, err := env.repos.category.GetByName(ctx, nil, subID, "bakery")
	if err != nil || bakery == nil {
		t.Fatalf("follow-up write inside the transaction was lost: %v", err)
	}
}

func TestResolveCategory_ScopedPerSubscription(t *testing.T) {
	env := newTestEnv(t)
	_, subA := seedOwner(t, env, "a@example.com")
	_, subB := seedOwner(t, env, "b@example.com")
	ctx := context.Background()

	catA, err := env.lookup.ResolveCategory(ctx, nil, subA, "dairy")
	if err != nil {
		t.Fatalf("resolve in subA: %v", err)
	}
	catB, err := env.lookup.ResolveCategory(ctx, nil, subB, "dairy")
	if err != nil {
		t.Fatalf("resolve in subB: %v", err)
	}
	if catA.ID == catB.ID {
		t.Fatalf("same name in different subscriptions must be distinct rows")
	}
}

func TestCreateCategory_RejectsDuplicateAndEmpty(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	if _, err := env.lookup.CreateCategory(ctx, subID, "Snacks"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := env.lookup.CreateCategory(ctx, subID, " SNACKS ")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	_, err = env.lookup.CreateCategory(ctx, subID, "   ")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRenameUnit_EnforcesScopeAndUniqueness(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	_, otherSub := seedOwner(t, env, "other@example.com")
	ctx := context.Background()

	kg, err := env.lookup.CreateUnit(ctx, subID, "kg")
	if err != nil {
		t.Fatalf("create kg: %v", err)
	}
	if _, err := env.lookup.CreateUnit(ctx, subID, "liters"); err != nil {
		t.Fatalf("create liters: %v", err)
	}

	if _, err := env.lookup.RenameUnit(ctx, kg.ID, "Liters", subID); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict renaming onto existing name, got %v", err)
	}
	if _, err := env.lookup.RenameUnit(ctx, kg.ID, "grams", otherSub); !errors.Is(err, apperr.ErrAccess) {
		t.Fatalf("expected access error from foreign subscription, got %v", err)
	}
	if _, err := env.lookup.RenameUnit(ctx, uuid.New(), "grams", subID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	renamed, err := env.lookup.RenameUnit(ctx, kg.ID, " Grams ", subID)
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != "grams" {
		t.Fatalf("expected normalized name %q, got %q", "grams", renamed.Name)
	}
}

func TestDeleteCategory_ClearsItemReferences(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	for _, name := range []string{"Milk", "Cheese", "Yogurt"} {
		if _, err := env.item.Create(ctx, CreateItemRequest{
			Name:           name,
			SubscriptionID: subID,
			Category:       "dairy",
		}); err != nil {
			t.Fatalf("create item %s: %v", name, err)
		}
	}
	if _, err := env.item.Create(ctx, CreateItemRequest{
		Name:           "Bread",
		SubscriptionID: subID,
		Category:       "bakery",
	}); err != nil {
		t.Fatalf("create bread: %v", err)
	}

	dairy, err := env.repos.category.GetByName(ctx, nil, subID, "dairy")
	if err != nil || dairy == nil {
		t.Fatalf("fetch dairy: %v", err)
	}

	result, err := env.lookup.DeleteCategory(ctx, dairy.ID, subID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.AffectedItems != 3 {
		t.Fatalf("expected 3 affected items, got %d", result.AffectedItems)
	}

	items, err := env.repos.item.ListFiltered(ctx, nil, subID, itemFilterAll())
	if err != nil {
		t.Fatalf("list items: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("items must survive category deletion, got %d", len(items))
	}
	for _, it := range items {
		if it.Name != "Bread" && it.CategoryID != nil {
			t.Fatalf("item %s still references deleted category", it.Name)
		}
	}
}

func TestListCategories_CountsReferencingItems(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	for _, name := range []string{"Milk", "Cheese"} {
		if _, err := env.item.Create(ctx, CreateItemRequest{
			Name:           name,
			SubscriptionID: subID,
			Category:       "dairy",
		}); err != nil {
			t.Fatalf("create item: %v", err)
		}
	}
	if _, err := env.lookup.CreateCategory(ctx, subID, "empty shelf"); err != nil {
		t.Fatalf("create category: %v", err)
	}

	list, err := env.lookup.ListCategories(ctx, subID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
	// Alphabetical: dairy before "empty shelf".
	if list[0].Name != "dairy" || list[0].ItemCount != 2 {
		t.Fatalf("unexpected first row: %+v", list[0])
	}
	if list[1].Name != "empty shelf" || list[1].ItemCount != 0 {
		t.Fatalf("unexpected second row: %+v", list[1])
	}
}

func TestBulkCreateCategories_SkipsDuplicatesAndBlanks(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	if _, err := env.lookup.CreateCategory(ctx, subID, "dairy"); err != nil {
		t.Fatalf("create: %v", err)
	}
	created, existing, err := env.lookup.BulkCreateCategories(ctx, subID, []string{"Dairy", "frozen", "FROZEN", "  ", "bakery"})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if created != 2 || existing != 1 {
		t.Fatalf("expected created=2 existing=1, got created=%d existing=%d", created, existing)
	}
}

func TestCleanupOrphanedUnits_RemovesOnlyUnreferenced(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	if _, err := env.item.Create(ctx, CreateItemRequest{
		Name:           "Milk",
		SubscriptionID: subID,
		Unit:           "liters",
	}); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := env.lookup.CreateUnit(ctx, subID, "kg"); err != nil {
		t.Fatalf("create kg: %v", err)
	}
	if _, err := env.lookup.CreateUnit(ctx, subID, "dozen"); err != nil {
		t.Fatalf("create dozen: %v", err)
	}

	removed, err := env.lookup.CleanupOrphanedUnits(ctx, subID)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	remaining, err := env.lookup.ListUnits(ctx, subID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "liters" {
		t.Fatalf("expected only liters to survive, got %+v", remaining)
	}
}
