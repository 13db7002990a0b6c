package order

// PriceComponents holds the signed monetary parts of an order, in cents.
// Trade-in, deposit and discount reduce the total; everything else adds to it.
type PriceComponents struct {
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
}

// TotalCents is the single source of truth for the order total on the Go side.
// The SQL side mirrors it in projection.TotalPriceExpr; the two must stay in sync.
func (p PriceComponents) TotalCents() int64 {
	return p.SaddleCents -
		p.TradeInCents -
		p.DepositCents -
		p.DiscountCents +
		p.FittingEvalCents +
		p.CallFeeCents +
		p.GirthCents +
		p.ShippingCents +
		p.TaxCents +
		p.AdditionalCents
}
