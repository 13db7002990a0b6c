package response

import (
	"time"

	"saddleview/internal/usecase/queries"
)

type EnrichedOrderResponse struct {
	OrderID         int64     `json:"orderId"`
	SerialNumber    *string   `json:"serialNumber,omitempty"`
	CustomerName    *string   `json:"customerName,omitempty"`
	FitterName      *string   `json:"fitterName,omitempty"`
	FactoryName     *string   `json:"factoryName,omitempty"`
	Brand           *string   `json:"brand,omitempty"`
	Model           *string   `json:"model,omitempty"`
	LeatherName     *string   `json:"leatherName,omitempty"`
	StatusName      *string   `json:"statusName,omitempty"`
	StatusCode      *string   `json:"statusCode,omitempty"`
	Urgent          bool      `json:"urgent"`
	Repair          bool      `json:"repair"`
	Demo            bool      `json:"demo"`
	Sponsored       bool      `json:"sponsored"`
	TotalPriceCents int64     `json:"totalPriceCents"`
	CreatedAt       time.Time `json:"createdAt"`
}

type OrderListResponse struct {
	Items      []*EnrichedOrderResponse `json:"items"`
	TotalCount int64                    `json:"totalCount"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"pageSize"`
}

type OrderPricesResponse struct {
	SaddleCents      int64 `json:"saddleCents"`
	TradeInCents     int64 `json:"tradeInCents"`
	DepositCents     int64 `json:"depositCents"`
	DiscountCents    int64 `json:"discountCents"`
	FittingEvalCents int64 `json:"fittingEvalCents"`
	CallFeeCents     int64 `json:"callFeeCents"`
	GirthCents       int64 `json:"girthCents"`
	ShippingCents    int64 `json:"shippingCents"`
	TaxCents         int64 `json:"taxCents"`
	AdditionalCents  int64 `json:"additionalCents"`
	TotalCents       int64 `json:"totalCents"`
}

type OrderEditResponse struct {
	OrderID       int64               `json:"orderId"`
	CustomerID    *int64              `json:"customerId,omitempty"`
	FitterID      *int64              `json:"fitterId,omitempty"`
	FactoryID     *int64              `json:"factoryId,omitempty"`
	ProductID     *int64              `json:"productId,omitempty"`
	LeatherTypeID *int64              `json:"leatherTypeId,omitempty"`
	StatusCode    *string             `json:"statusCode,omitempty"`
	Config        *string             `json:"config,omitempty"`
	Prices        OrderPricesResponse `json:"prices"`
	Urgent        bool                `json:"urgent"`
	Repair        bool                `json:"repair"`
	Demo          bool                `json:"demo"`
	Sponsored     bool                `json:"sponsored"`
}

func FromEnrichedOrderView(rm *queries.EnrichedOrderView) *EnrichedOrderResponse {
	return &EnrichedOrderResponse{
		OrderID:         rm.OrderID,
		SerialNumber:    rm.SerialNumber,
		CustomerName:    rm.CustomerName,
		FitterName:      rm.FitterName,
		FactoryName:     rm.FactoryName,
		Brand:           rm.Brand,
		Model:           rm.Model,
		LeatherName:     rm.LeatherName,
		StatusName:      rm.StatusName,
		StatusCode:      rm.StatusCode,
		Urgent:          rm.Urgent,
		Repair:          rm.Repair,
		Demo:            rm.Demo,
		Sponsored:       rm.Sponsored,
		TotalPriceCents: rm.TotalPriceCents,
		CreatedAt:       rm.CreatedAt,
	}
}

func FromOrderPage(page *queries.OrderPage) *OrderListResponse {
	items := make([]*EnrichedOrderResponse, len(page.Items))
	for i, rm := range page.Items {
		items[i] = FromEnrichedOrderView(rm)
	}
	return &OrderListResponse{
		Items:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
	}
}

func FromOrderEditView(rm *queries.OrderEditView) *OrderEditResponse {
	return &OrderEditResponse{
		OrderID:       rm.OrderID,
		CustomerID:    rm.CustomerID,
		FitterID:      rm.FitterID,
		FactoryID:     rm.FactoryID,
		ProductID:     rm.ProductID,
		LeatherTypeID: rm.LeatherTypeID,
		StatusCode:    rm.StatusCode,
		Config:        rm.Config,
		Prices: OrderPricesResponse{
			SaddleCents:      rm.Prices.SaddleCents,
			TradeInCents:     rm.Prices.TradeInCents,
			DepositCents:     rm.Prices.DepositCents,
			DiscountCents:    rm.Prices.DiscountCents,
			FittingEvalCents: rm.Prices.FittingEvalCents,
			CallFeeCents:     rm.Prices.CallFeeCents,
			GirthCents:       rm.Prices.GirthCents,
			ShippingCents:    rm.Prices.ShippingCents,
			TaxCents:         rm.Prices.TaxCents,
			AdditionalCents:  rm.Prices.AdditionalCents,
			TotalCents:       rm.Prices.TotalCents(),
		},
		Urgent:    rm.Urgent,
		Repair:    rm.Repair,
		Demo:      rm.Demo,
		Sponsored: rm.Sponsored,
	}
}
