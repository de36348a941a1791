// Package listing sorts, filters and pages lists that were already fetched in full.
package listing

import (
	"slices"
	"strings"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder defaults to descending, newest first.
func ParseOrder(raw string) Order {
	if strings.EqualFold(strings.TrimSpace(raw), string(OrderAsc)) {
		return OrderAsc
	}
	return OrderDesc
}

// Sort returns a sorted copy of items. Ties keep their original order.
func Sort[T any](items []T, cmp func(a, b T) int, order Order) []T {
	sorted := slices.Clone(items)
	if cmp == nil {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b T) int {
		if order == OrderDesc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return sorted
}
