package types

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest 分页参数，page 从 1 开始
type PageRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (p *PageRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

type ListResponse[T any] struct {
	Items    []T  `json:"items"`
	Page     int  `json:"page"`
	PageSize int  `json:"page_size"`
	HasMore  bool `json:"has_more"`
}

func NewList[T any](items []T, page PageRequest) *ListResponse[T] {
	if items == nil {
		items = make([]T, 0)
	}
	return &ListResponse[T]{
		Items:    items,
		Page:     page.Page,
		PageSize: page.PageSize,
		HasMore:  len(items) == page.PageSize,
	}
}
