package request

import (
	"saddleview/internal/usecase/queries"
)

type ListOrdersRequest struct {
	Status     string `form:"status"`
	CustomerID *int64 `form:"customer_id"`
	Urgent     *bool  `form:"urgent"`
	Sort       string `form:"sort"`
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
}

func (r ListOrdersRequest) ToQuery() queries.OrderListRequest {
	return queries.OrderListRequest{
		StatusCode: r.Status,
		CustomerID: r.CustomerID,
		Urgent:     r.Urgent,
		Sort:       r.Sort,
		Page:       r.Page,
		PageSize:   r.PageSize,
	}
}
