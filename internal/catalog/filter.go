package catalog

import (
	"math"
	"strconv"
	"strings"
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// Filter is the parsed form of the product listing query string.
// Nil or empty fields are not applied.
type Filter struct {
	Categories  []string
	MinDiscount *float64
	Search      string
	MinPrice    *float64
	MaxPrice    *float64
	Sort        SortKey
}

// Lookup returns the raw value of a query parameter, or "" when absent.
type Lookup func(key string) string

// ParseFilter reads category, minDiscount, search, minPrice, maxPrice and sort.
//
// category and minDiscount accept comma separated lists. Several discounts
// collapse to the smallest one, so the listing shows everything discounted
// by at least any of the requested amounts. Values that do not parse as
// numbers are dropped rather than rejected.
func ParseFilter(get Lookup) Filter {
	f := Filter{
		Categories: splitList(get("category")),
		Search:     strings.TrimSpace(get("search")),
		MinPrice:   parseNumber(get("minPrice")),
		MaxPrice:   parseNumber(get("maxPrice")),
		Sort:       parseSort(get("sort")),
	}

	for _, raw := range splitList(get("minDiscount")) {
		v := parseNumber(raw)
		if v == nil {
			continue
		}
		if f.MinDiscount == nil || *v < *f.MinDiscount {
			f.MinDiscount = v
		}
	}
	return f
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseNumber(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseSort(raw string) SortKey {
	switch SortKey(raw) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	default:
		return SortNewest
	}
}
