package orders

// Paging defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions selects a page of the ledger, newest first.
type ListOptions struct {
	Page     int
	PageSize int
}

// Normalize applies the paging defaults and bounds.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 {
		o.PageSize = DefaultPageSize
	}
	if o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

func (o ListOptions) offset() int {
	return (o.Page - 1) * o.PageSize
}

// Page is one page of ledger orders.
type Page struct {
	Orders   []OrderRecord `json:"orders"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}
