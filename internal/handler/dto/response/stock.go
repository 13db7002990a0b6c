package response

import (
	"net/url"

	"saddleview/internal/usecase/queries"
)

type StockItemResponse struct {
	OrderID           int64   `json:"orderId"`
	SerialNumber      *string `json:"serialNumber,omitempty"`
	HolderID          int64   `json:"holderId"`
	HolderName        *string `json:"holderName,omitempty"`
	Brand             *string `json:"brand,omitempty"`
	Model             *string `json:"model,omitempty"`
	Demo              bool    `json:"demo"`
	Customizable      bool    `json:"customizable"`
	PreviouslyOrdered bool    `json:"previouslyOrdered"`
	Sponsored         bool    `json:"sponsored"`
}

// StockListResponse wraps the page in a navigable envelope.
type StockListResponse struct {
	Items      []*StockItemResponse `json:"items"`
	TotalCount int64                `json:"totalCount"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	Links      Links                `json:"_links"`
}

func FromStockItemView(rm *queries.StockItemView) *StockItemResponse {
	return &StockItemResponse{
		OrderID:           rm.OrderID,
		SerialNumber:      rm.SerialNumber,
		HolderID:          rm.HolderID,
		HolderName:        rm.HolderName,
		Brand:             rm.Brand,
		Model:             rm.Model,
		Demo:              rm.Demo,
		Customizable:      rm.Customizable,
		PreviouslyOrdered: rm.PreviouslyOrdered,
		Sponsored:         rm.Sponsored,
	}
}

func FromStockPage(page *queries.StockPage, path string, query url.Values) *StockListResponse {
	items := make([]*StockItemResponse, len(page.Items))
	for i, rm := range page.Items {
		items[i] = FromStockItemView(rm)
	}
	return &StockListResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		Links:      NewPageLinks(path, query, page.Page, page.PageSize, page.TotalCount),
	}
}
