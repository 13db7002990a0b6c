//go:build e2e

package orders_test

import (
	"fmt"
	"net/http"
	"testing"

	"saddleview/internal/domain/user"
	"saddleview/internal/handler/dto/response"
	"saddleview/tests/common/authtest"
	"saddleview/tests/common/dbtest"
	"saddleview/tests/common/httptest"
	"saddleview/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const ordersURL = "/api/orders"

type OrdersSuite struct {
	e2e.SharedSuite
}

func TestOrdersSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(OrdersSuite))
}

func (s *OrdersSuite) adminToken(t *testing.T) string {
	return authtest.GenerateToken(t, s.Config.JWT, uuid.New(), user.RoleAdmin)
}

func (s *OrdersSuite) refreshProjections(t *testing.T, token string) {
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/projections/refresh", nil, token)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
}

func (s *OrdersSuite) TestListOrders() {
	s.Run("total price follows the component formula", func() {
		t := s.T()

		customer := dbtest.CreateTestCustomer(t, s.DB, "Jane Rider")
		product := dbtest.CreateTestProduct(t, s.DB, "Equipe", "Expression")
		orderID := dbtest.CreateTestOrder(t, s.DB, dbtest.OrderParams{
			SerialNumber:  "SN-1",
			CustomerID:    &customer,
			ProductID:     &product,
			StatusCode:    "in_production",
			PriceSaddle:   4500,
			PriceTradeIn:  500,
			PriceShipping: 50,
			PriceTax:      300,
		})

		token := s.adminToken(t)
		s.refreshProjections(t, token)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.OrderListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Items, 1)
		require.Equal(t, orderID, body.Items[0].OrderID)
		require.Equal(t, int64(4350), body.Items[0].TotalPriceCents)
		require.NotNil(t, body.Items[0].CustomerName)
		require.Equal(t, "Jane Rider", *body.Items[0].CustomerName)
	})

	s.Run("orders with missing references keep their row", func() {
		t := s.T()

		// No customer, no product, no status. The outer joins must still
		// surface the order with null display fields.
		orderID := dbtest.CreateTestOrder(t, s.DB, dbtest.OrderParams{
			PriceSaddle: 1000,
		})

		token := s.adminToken(t)
		s.refreshProjections(t, token)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.OrderListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Items, 1)
		require.Equal(t, orderID, body.Items[0].OrderID)
		require.Nil(t, body.Items[0].CustomerName)
		require.Equal(t, int64(1000), body.Items[0].TotalPriceCents)
	})

	s.Run("front-line role cannot list orders", func() {
		t := s.T()

		token := authtest.GenerateToken(t, s.Config.JWT, uuid.New(), user.RoleFitter)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL, nil, token)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

func (s *OrdersSuite) TestGetEditView() {
	s.Run("returns the raw price components", func() {
		t := s.T()

		orderID := dbtest.CreateTestOrder(t, s.DB, dbtest.OrderParams{
			StatusCode:    "ordered",
			PriceSaddle:   4500,
			PriceTradeIn:  500,
			PriceShipping: 50,
			PriceTax:      300,
		})

		token := s.adminToken(t)
		s.refreshProjections(t, token)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf("%s/%d/edit", ordersURL, orderID), nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.OrderEditResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Equal(t, orderID, body.OrderID)
		require.Equal(t, int64(4500), body.Prices.SaddleCents)
		require.Equal(t, int64(4350), body.Prices.TotalCents)
		require.NotNil(t, body.StatusCode)
		require.Equal(t, "ordered", *body.StatusCode)
	})

	s.Run("missing order is 404", func() {
		t := s.T()

		token := s.adminToken(t)
		s.refreshProjections(t, token)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, ordersURL+"/999999/edit", nil, token)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}
