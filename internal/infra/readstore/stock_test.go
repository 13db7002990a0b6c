//go:build unit

package readstore

import (
	"testing"

	"saddleview/internal/usecase/queries"

	"github.com/stretchr/testify/assert"
)

func holderID(v int64) *int64 { return &v }

func TestBuildStockWhere(t *testing.T) {
	testCases := []struct {
		name          string
		filter        queries.StockFilter
		expectedWhere string
		expectedArgs  []any
	}{
		{
			name:          "mine filters to the caller's holder",
			filter:        queries.StockFilter{Scope: queries.ScopeDescriptor{Scope: queries.ScopeMine, HolderID: holderID(7)}},
			expectedWhere: " WHERE stock_holder_id IS NOT NULL AND stock_holder_id = $1",
			expectedArgs:  []any{int64(7)},
		},
		{
			name:          "available excludes the caller's holder",
			filter:        queries.StockFilter{Scope: queries.ScopeDescriptor{Scope: queries.ScopeAvailable, HolderID: holderID(7)}},
			expectedWhere: " WHERE stock_holder_id IS NOT NULL AND stock_holder_id <> $1",
			expectedArgs:  []any{int64(7)},
		},
		{
			name:          "available without resolvable holder excludes nothing",
			filter:        queries.StockFilter{Scope: queries.ScopeDescriptor{Scope: queries.ScopeAvailable}},
			expectedWhere: " WHERE stock_holder_id IS NOT NULL",
			expectedArgs:  nil,
		},
		{
			name:          "all has only the stock condition",
			filter:        queries.StockFilter{Scope: queries.ScopeDescriptor{Scope: queries.ScopeAll}},
			expectedWhere: " WHERE stock_holder_id IS NOT NULL",
			expectedArgs:  nil,
		},
		{
			name: "search composes with the scope filter",
			filter: queries.StockFilter{
				Scope:  queries.ScopeDescriptor{Scope: queries.ScopeMine, HolderID: holderID(3)},
				Search: "dressage",
			},
			expectedWhere: " WHERE stock_holder_id IS NOT NULL AND stock_holder_id = $1" +
				" AND (serial_number ILIKE $2 OR brand ILIKE $2 OR model ILIKE $2 OR stock_holder_name ILIKE $2)",
			expectedArgs: []any{int64(3), "%dressage%"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			where, args := buildStockWhere(tc.filter)
			assert.Equal(t, tc.expectedWhere, where)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c\\d`, escapeLike(`c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestStockSortClause(t *testing.T) {
	assert.Equal(t, "serial_number ASC, order_id DESC", stockSortClause("serial"))
	assert.Equal(t, "order_id DESC", stockSortClause(""))
	assert.Equal(t, "order_id DESC", stockSortClause("id; DROP TABLE orders"))
}

func TestBuildOrderWhere(t *testing.T) {
	t.Run("empty filter has no where clause", func(t *testing.T) {
		where, args := buildOrderWhere(queries.OrderFilter{})
		assert.Empty(t, where)
		assert.Nil(t, args)
	})

	t.Run("all filters compose", func(t *testing.T) {
		urgent := true
		where, args := buildOrderWhere(queries.OrderFilter{
			StatusCode: "in_production",
			CustomerID: holderID(11),
			Urgent:     &urgent,
		})
		assert.Equal(t, " WHERE status_code = $1 AND customer_id = $2 AND urgent = $3", where)
		assert.Equal(t, []any{"in_production", int64(11), true}, args)
	})
}

func TestLiveStoresShareTheProjectionJoin(t *testing.T) {
	// The fallback must run the projection's own defining join, not a
	// reimplementation of it.
	live := NewLiveStockStore(nil)
	assert.Contains(t, live.from, "LEFT JOIN customers")
	assert.Contains(t, live.from, "price_saddle - o.price_trade_in")

	projected := NewStockSummariesStore(nil)
	assert.Equal(t, "order_summaries", projected.from)
}
