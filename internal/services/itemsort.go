package services

import (
	"sort"
	"strings"

	"github.com/avelars/pantrylist-backend/internal/types"
)

type SortKey string

const (
	SortByName      SortKey = "name"
	SortByCreatedAt SortKey = "createdAt"
	SortByUpdatedAt SortKey = "updatedAt"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// compareItems is the catalog ordering policy as a plain comparator, kept
// independent of the storage query because the stock-level tie-break cannot
// be expressed in a portable ORDER BY. Three tiers:
//  1. shouldBuy=true before shouldBuy=false
//  2. currentStock LOW < MEDIUM < HIGH; unset stock after all leveled items,
//     regardless of the requested order
//  3. the requested sort key and order
//
// Returns a negative value when a sorts before b.
func compareItems(a, b *types.Item, key SortKey, order SortOrder) int {
	if a.ShouldBuy != b.ShouldBuy {
		if a.ShouldBuy {
			return -1
		}
		return 1
	}

	switch {
	case a.CurrentStock != nil && b.CurrentStock == nil:
		return -1
	case a.CurrentStock == nil && b.CurrentStock != nil:
		return 1
	case a.CurrentStock != nil && b.CurrentStock != nil:
		if d := a.CurrentStock.Rank() - b.CurrentStock.Rank(); d != 0 {
			return d
		}
	}

	var cmp int
	switch key {
	case SortByCreatedAt:
		cmp = compareTimes(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano())
	case SortByUpdatedAt:
		cmp = compareTimes(a.UpdatedAt.UnixNano(), b.UpdatedAt.UnixNano())
	default:
		cmp = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	if order == SortDesc {
		cmp = -cmp
	}
	return cmp
}

func compareTimes(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func sortItems(items []types.Item, key SortKey, order SortOrder) {
	sort.SliceStable(items, func(i, j int) bool {
		return compareItems(&items[i], &items[j], key, order) < 0
	})
}
