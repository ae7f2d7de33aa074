package types

import "strings"

// StockLevel is the coarse remaining-quantity indicator on an item.
type StockLevel string

const (
	StockLow    StockLevel = "LOW"
	StockMedium StockLevel = "MEDIUM"
	StockHigh   StockLevel = "HIGH"
)

// Rank returns the fixed ordering position LOW(1) < MEDIUM(2) < HIGH(3).
// Unknown values rank last.
func (s StockLevel) Rank() int {
	switch s {
	case StockLow:
		return 1
	case StockMedium:
		return 2
	case StockHigh:
		return 3
	}
	return 999
}

// ParseStockLevel validates an input string against the closed enumeration.
// Matching is exact ("low" is rejected, "LOW" is not). The empty string maps
// to (nil, true) meaning "unset".
func ParseStockLevel(raw string) (*StockLevel, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}
	level := StockLevel(trimmed)
	switch level {
	case StockLow, StockMedium, StockHigh:
		return &level, true
	}
	return nil, false
}
