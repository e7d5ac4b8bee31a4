package model

// Pagination describes one page of a listing.  TotalPages is always
// ceil(TotalItems / ItemsPerPage).
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// CustomerPagination extends Pagination with the navigation hints the
// customers listing has always carried.
type CustomerPagination struct {
	Pagination
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// NewPagination computes the page metadata for a listing of total items
// shown limit per page.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}
