package domain

// PaginationParams selects one page of a list ordered by the repository.
// Page is 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the number of rows to skip, (Page-1)*PageSize. Pages below 1 start at row 0.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
