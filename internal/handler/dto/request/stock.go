package request

import (
	"strings"

	"saddleview/internal/usecase/queries"
)

type ListStockRequest struct {
	Scope    string `form:"scope"`
	Search   string `form:"q"`
	Sort     string `form:"sort"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

func (r ListStockRequest) ToQuery() queries.StockListRequest {
	return queries.StockListRequest{
		Scope:    strings.TrimSpace(r.Scope),
		Search:   strings.TrimSpace(r.Search),
		Sort:     r.Sort,
		Page:     r.Page,
		PageSize: r.PageSize,
	}
}
