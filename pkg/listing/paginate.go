package listing

import "github.com/samber/lo"

const (
	DefaultPageSize = 10
	MaxPageSize     = 250
)

type PageInfo struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

// Paginate slices one page out of items. Page numbers start at 1; out of range
// values are clamped.
func Paginate[T any](items []T, page, pageSize int) ([]T, PageInfo) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	info := PageInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
	// compared in pages so a huge page number cannot overflow the offset
	if page > totalPages {
		return []T{}, info
	}
	return lo.Subset(items, (page-1)*pageSize, uint(pageSize)), info
}
