package types

import "testing"

func TestParseStockLevel_AcceptsOnlyExactMembers(t *testing.T) {
	for _, raw := range []string{"LOW", "MEDIUM", "HIGH", "  LOW "} {
		level, ok := ParseStockLevel(raw)
		if !ok || level == nil {
			t.Fatalf("ParseStockLevel(%q) rejected a valid level", raw)
		}
	}
	for _, raw := range []string{"low", "Medium", "hIgH", "PLENTY"} {
		if level, ok := ParseStockLevel(raw); ok {
			t.Fatalf("ParseStockLevel(%q) accepted %v, want rejection", raw, level)
		}
	}
}

func TestParseStockLevel_BlankMeansUnset(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		level, ok := ParseStockLevel(raw)
		if !ok || level != nil {
			t.Fatalf("ParseStockLevel(%q) = (%v, %v), want unset", raw, level, ok)
		}
	}
}

func TestStockLevelRank(t *testing.T) {
	if StockLow.Rank() >= StockMedium.Rank() || StockMedium.Rank() >= StockHigh.Rank() {
		t.Fatalf("rank ordering broken: %d %d %d", StockLow.Rank(), StockMedium.Rank(), StockHigh.Rank())
	}
	if StockLevel("bogus").Rank() <= StockHigh.Rank() {
		t.Fatalf("unknown levels must rank last")
	}
}
