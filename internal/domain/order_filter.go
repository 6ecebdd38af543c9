package domain

import "github.com/google/uuid"

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// OrderFilter narrows an order listing. A nil UserID lists every customer.
type OrderFilter struct {
	UserID  *uuid.UUID
	Status  Status
	Search  string
	Page    int
	PerPage int
}

// Normalize clamps paging to sane bounds.
func (f OrderFilter) Normalize() OrderFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	return f
}

func (f OrderFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

type OrderPage struct {
	Orders  []Order
	Total   int64
	Page    int
	PerPage int
}

func (p OrderPage) LastPage() int {
	if p.Total == 0 || p.PerPage < 1 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}
