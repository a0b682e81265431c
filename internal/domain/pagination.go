package domain

// PaginationMetadata describes one page of a filtered collection. It is
// derived on every paged query and never stored.
type PaginationMetadata struct {
	TotalItemCount int `json:"totalItemCount" xml:"totalItemCount"`
	TotalPageCount int `json:"totalPageCount" xml:"totalPageCount"`
	PageSize       int `json:"pageSize"       xml:"pageSize"`
	CurrentPage    int `json:"currentPage"    xml:"currentPage"`
}

// NewPaginationMetadata computes the page count as ceil(total/pageSize).
// A total of zero yields zero pages. A non-positive pageSize yields zero pages
// rather than dividing by zero.
func NewPaginationMetadata(totalItemCount, pageSize, currentPage int) PaginationMetadata {
	pages := 0
	if pageSize > 0 && totalItemCount > 0 {
		pages = (totalItemCount + pageSize - 1) / pageSize
	}
	return PaginationMetadata{
		TotalItemCount: totalItemCount,
		TotalPageCount: pages,
		PageSize:       pageSize,
		CurrentPage:    currentPage,
	}
}

// CityQuery filters and pages the city collection. Name is an exact match and
// SearchQuery a substring match over name or description; blank values are
// ignored. Paging values are used as given.
type CityQuery struct {
	Name        string
	SearchQuery string
	PageNumber  int
	PageSize    int
}
