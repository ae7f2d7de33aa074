package services

import (
	"context"
	"errors"
	"testing"

	"github.com/avelars/pantrylist-backend/internal/apperr"
	"github.com/google/uuid"
)

func createCatalogItem(t *testing.T, env *testEnv, subID uuid.UUID, req CreateItemRequest) {
	t.Helper()
	req.SubscriptionID = subID
	if _, err := env.item.Create(context.Background(), req); err != nil {
		t.Fatalf("create %s: %v", req.Name, err)
	}
}

func resultNames(r *ItemListResult) []string {
	names := make([]string, len(r.Items))
	for i := range r.Items {
		names[i] = r.Items[i].Name
	}
	return names
}

func TestQueryList_ThreeTierOrderingIgnoresRequestedOrderForUpperTiers(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Apples", ShouldBuy: boolPtr(true), CurrentStock: "LOW"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Butter", ShouldBuy: boolPtr(true), CurrentStock: "HIGH"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Coffee", ShouldBuy: boolPtr(false), CurrentStock: "LOW"})

	for _, order := range []string{"asc", "desc"} {
		result, err := env.query.List(ctx, subID, ListOptions{SortBy: "name", SortOrder: order}, ListFilters{})
		if err != nil {
			t.Fatalf("list order=%s: %v", order, err)
		}
		got := resultNames(result)
		want := []string{"Apples", "Butter", "Coffee"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order=%s: expected %v, got %v", order, want, got)
			}
		}
	}
}

func TestQueryList_UnsetStockSortsAfterLeveledItems(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	createCatalogItem(t, env, subID, CreateItemRequest{Name: "NoStock"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "High", CurrentStock: "HIGH"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Medium", CurrentStock: "MEDIUM"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Low", CurrentStock: "LOW"})

	for _, order := range []string{"asc", "desc"} {
		result, err := env.query.List(ctx, subID, ListOptions{SortBy: "name", SortOrder: order}, ListFilters{})
		if err != nil {
			t.Fatalf("list order=%s: %v", order, err)
		}
		got := resultNames(result)
		want := []string{"Low", "Medium", "High", "NoStock"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("order=%s: expected %v, got %v", order, want, got)
			}
		}
	}
}

func TestQueryList_ThirdTierRespectsRequestedOrder(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	createCatalogItem(t, env, subID, CreateItemRequest{Name: "banana"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Apple"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "cherry"})

	asc, err := env.query.List(ctx, subID, ListOptions{SortBy: "name", SortOrder: "asc"}, ListFilters{})
	if err != nil {
		t.Fatalf("list asc: %v", err)
	}
	gotAsc := resultNames(asc)
	wantAsc := []string{"Apple", "banana", "cherry"}
	for i := range wantAsc {
		if gotAsc[i] != wantAsc[i] {
			t.Fatalf("asc: expected %v, got %v", wantAsc, gotAsc)
		}
	}

	desc, err := env.query.List(ctx, subID, ListOptions{SortBy: "name", SortOrder: "desc"}, ListFilters{})
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	gotDesc := resultNames(desc)
	wantDesc := []string{"cherry", "banana", "Apple"}
	for i := range wantDesc {
		if gotDesc[i] != wantDesc[i] {
			t.Fatalf("desc: expected %v, got %v", wantDesc, gotDesc)
		}
	}
}

func TestQueryList_Pagination(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	for _, n := range names {
		createCatalogItem(t, env, subID, CreateItemRequest{Name: n})
	}

	page1, err := env.query.List(ctx, subID, ListOptions{Page: 1, ItemsPerPage: 5}, ListFilters{})
	if err != nil {
		t.Fatalf("page 1: %v", err)
	}
	if page1.TotalItems != 12 || page1.TotalPages != 3 || len(page1.Items) != 5 {
		t.Fatalf("page 1: total=%d pages=%d len=%d", page1.TotalItems, page1.TotalPages, len(page1.Items))
	}

	page3, err := env.query.List(ctx, subID, ListOptions{Page: 3, ItemsPerPage: 5}, ListFilters{})
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(page3.Items) != 2 || page3.CurrentPage != 3 {
		t.Fatalf("page 3: len=%d current=%d", len(page3.Items), page3.CurrentPage)
	}
	if page3.Items[0].Name != "k" || page3.Items[1].Name != "l" {
		t.Fatalf("page 3 contents: %v", resultNames(page3))
	}

	// Past the end: empty page, same totals.
	page4, err := env.query.List(ctx, subID, ListOptions{Page: 4, ItemsPerPage: 5}, ListFilters{})
	if err != nil {
		t.Fatalf("page 4: %v", err)
	}
	if len(page4.Items) != 0 || page4.TotalItems != 12 {
		t.Fatalf("page 4: len=%d total=%d", len(page4.Items), page4.TotalItems)
	}
}

func TestQueryList_Filters(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Milk", Category: "dairy", CurrentStock: "LOW"})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Cheese", Category: "dairy", ShouldBuy: boolPtr(false)})
	createCatalogItem(t, env, subID, CreateItemRequest{Name: "Bread", Category: "bakery", CurrentStock: "HIGH"})

	byCategory, err := env.query.List(ctx, subID, ListOptions{}, ListFilters{Category: "Dairy"})
	if err != nil {
		t.Fatalf("category filter: %v", err)
	}
	if byCategory.TotalItems != 2 {
		t.Fatalf("expected 2 dairy items, got %d: %v", byCategory.TotalItems, resultNames(byCategory))
	}

	all, err := env.query.List(ctx, subID, ListOptions{}, ListFilters{Category: "all"})
	if err != nil {
		t.Fatalf("category=all: %v", err)
	}
	if all.TotalItems != 3 {
		t.Fatalf("category=all must not filter, got %d", all.TotalItems)
	}

	toBuy, err := env.query.List(ctx, subID, ListOptions{}, ListFilters{ShouldBuy: boolPtr(true)})
	if err != nil {
		t.Fatalf("shouldBuy filter: %v", err)
	}
	if toBuy.TotalItems != 2 {
		t.Fatalf("expected 2 to-buy items, got %d", toBuy.TotalItems)
	}

	lowStock, err := env.query.List(ctx, subID, ListOptions{}, ListFilters{StockLevel: "LOW"})
	if err != nil {
		t.Fatalf("stock filter: %v", err)
	}
	if lowStock.TotalItems != 1 || lowStock.Items[0].Name != "Milk" {
		t.Fatalf("expected only Milk at LOW, got %v", resultNames(lowStock))
	}

	// Search matches item name or category name, case-insensitively.
	byName, err := env.query.List(ctx, subID, ListOptions{}, ListFilters{Search: "mil"})
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if byName.TotalItems != 1 || byName.Items[0].Name != "Milk" {
		t.Fatalf("search mil: %v", resultNames(byName))
	}
	byCatName, err := env.query.List(ctx, subID, ListOptions{}, ListFilters{Search: "DAIRY"})
	if err != nil {
		t.Fatalf("search by category: %v", err)
	}
	if byCatName.TotalItems != 2 {
		t.Fatalf("search DAIRY: expected 2, got %v", resultNames(byCatName))
	}
}

func TestQueryList_ScopedToSubscription(t *testing.T) {
	env := newTestEnv(t)
	_, subA := seedOwner(t, env, "a@example.com")
	_, subB := seedOwner(t, env, "b@example.com")
	ctx := context.Background()

	createCatalogItem(t, env, subA, CreateItemRequest{Name: "Milk"})
	createCatalogItem(t, env, subB, CreateItemRequest{Name: "Bread"})

	result, err := env.query.List(ctx, subA, ListOptions{}, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.TotalItems != 1 || result.Items[0].Name != "Milk" {
		t.Fatalf("expected only subA's item, got %v", resultNames(result))
	}
}

func TestQueryList_ItemsIncludeOrderedPrices(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	createCatalogItem(t, env, subID, CreateItemRequest{
		Name: "Milk",
		Prices: []PriceInput{
			{Price: 3.99, Store: "A"},
			{Price: 4.29, Store: "B"},
		},
	})

	result, err := env.query.List(ctx, subID, ListOptions{}, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.TotalItems != 1 {
		t.Fatalf("expected 1 item, got %d", result.TotalItems)
	}
	prices := result.Items[0].Prices
	if len(prices) != 2 {
		t.Fatalf("expected 2 prices, got %d", len(prices))
	}
	if prices[0].Price != 3.99 || prices[1].Price != 4.29 {
		t.Fatalf("expected cheapest first [3.99 4.29], got [%v %v]", prices[0].Price, prices[1].Price)
	}
}

func TestQueryList_RejectsBadOptions(t *testing.T) {
	env := newTestEnv(t)
	_, subID := seedOwner(t, env, "owner@example.com")
	ctx := context.Background()

	cases := []struct {
		name    string
		opts    ListOptions
		filters ListFilters
	}{
		{"negative page", ListOptions{Page: -1}, ListFilters{}},
		{"oversized page size", ListOptions{ItemsPerPage: 101}, ListFilters{}},
		{"bad sort key", ListOptions{SortBy: "price"}, ListFilters{}},
		{"bad sort order", ListOptions{SortOrder: "sideways"}, ListFilters{}},
		{"bad stock level", ListOptions{}, ListFilters{StockLevel: "PLENTY"}},
	}
	for _, tc := range cases {
		if _, err := env.query.List(ctx, subID, tc.opts, tc.filters); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}
