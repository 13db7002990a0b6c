//go:build unit

package order_test

import (
	"testing"

	"saddleview/internal/domain/order"

	"github.com/stretchr/testify/assert"
)

func TestPriceComponents_TotalCents(t *testing.T) {
	testCases := []struct {
		name     string
		prices   order.PriceComponents
		expected int64
	}{
		{
			name:     "zero components",
			prices:   order.PriceComponents{},
			expected: 0,
		},
		{
			name: "saddle with deposit, shipping and tax",
			prices: order.PriceComponents{
				SaddleCents:   4500,
				DepositCents:  500,
				ShippingCents: 50,
				TaxCents:      300,
			},
			expected: 4350,
		},
		{
			name: "all subtractive components exceed the saddle price",
			prices: order.PriceComponents{
				SaddleCents:   1000,
				TradeInCents:  800,
				DepositCents:  300,
				DiscountCents: 100,
			},
			expected: -200,
		},
		{
			name: "every component set",
			prices: order.PriceComponents{
				SaddleCents:      100000,
				TradeInCents:     20000,
				DepositCents:     10000,
				DiscountCents:    5000,
				FittingEvalCents: 1500,
				CallFeeCents:     800,
				GirthCents:       1200,
				ShippingCents:    2500,
				TaxCents:         7000,
				AdditionalCents:  300,
			},
			expected: 78300,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.prices.TotalCents())
		})
	}
}
