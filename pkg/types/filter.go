package types

// Filter carries list-endpoint query parameters after parsing.
type Filter struct {
	Search string
	Filter map[string]interface{}
	Page   int
	Limit  int
}

func (f Filter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// Pagination is the metadata block every paginated response carries.
// Total is always the count of rows matching the same predicate as the
// data query, with no limit/offset applied.
type Pagination struct {
	Total      uint64 `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

func NewPagination(total uint64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: totalPages}
}
