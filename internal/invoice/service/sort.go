package service

import (
	"cmp"
	"strings"
	"time"

	invoicedomain "github.com/megomed/marketplace/internal/invoice/domain"
)

var comparators = map[string]func(a, b invoicedomain.Invoice) int{
	invoicedomain.SortByCreatedAt: func(a, b invoicedomain.Invoice) int {
		return compareTimes(a.CreatedTime, b.CreatedTime)
	},
	invoicedomain.SortByDeliveryDate: func(a, b invoicedomain.Invoice) int {
		return compareTimes(a.DeliveryTime, b.DeliveryTime)
	},
	invoicedomain.SortByAmount: func(a, b invoicedomain.Invoice) int {
		return a.Amount.Cmp(b.Amount)
	},
	invoicedomain.SortByStatus: func(a, b invoicedomain.Invoice) int {
		return cmp.Compare(invoicedomain.MapStatus(a.Status).Label, invoicedomain.MapStatus(b.Status).Label)
	},
}

func comparator(sortBy string) (func(a, b invoicedomain.Invoice) int, error) {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	if sortBy == "" {
		sortBy = invoicedomain.SortByCreatedAt
	}
	c, ok := comparators[sortBy]
	if !ok {
		return nil, invoicedomain.ErrInvalidSortField
	}
	return c, nil
}

// compareTimes orders records without a parseable date first.
func compareTimes(a, b func() (time.Time, bool)) int {
	ta, okA := a()
	tb, okB := b()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	default:
		return ta.Compare(tb)
	}
}
