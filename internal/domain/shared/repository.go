package shared

import "math"

// MaxPage is the highest page number a listing accepts
const MaxPage = 1_000_000

// Filter represents generic query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// ClampPage bounds page to [1, MaxPage]
func ClampPage(page int) int {
	switch {
	case page < 1:
		return 1
	case page > MaxPage:
		return MaxPage
	}
	return page
}

// Offset returns the row offset for the filter's page. It saturates at
// math.MaxInt instead of wrapping.
func (f Filter) Offset() int {
	if f.Page <= 1 || f.PageSize <= 0 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

// PastEnd reports whether the filter's page starts beyond total rows
func (f Filter) PastEnd(total int64) bool {
	return total <= 0 || int64(f.Offset()) >= total
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// TotalPages returns ceil(total/pageSize). A non-positive page size yields 0.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) > 0 {
		pages++
	}
	return int(pages)
}

// NewPaginated creates a new paginated result. Items is never nil so that a
// page past the end serialises as an empty array.
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(total, pageSize),
	}
}
