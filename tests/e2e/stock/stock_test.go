//go:build e2e

package stock_test

import (
	"net/http"
	"testing"

	"saddleview/internal/domain/user"
	"saddleview/internal/handler/dto/response"
	"saddleview/tests/common/authtest"
	"saddleview/tests/common/dbtest"
	"saddleview/tests/common/httptest"
	"saddleview/tests/e2e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const stockURL = "/api/stock"

type StockSuite struct {
	e2e.SharedSuite
}

func TestStockSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(StockSuite))
}

// seedStock creates two fitters with one stock saddle each plus one order
// that is not stock at all. Returns the first fitter's account.
func seedStock(t *testing.T, db *pgxpool.Pool) (uuid.UUID, int64, int64) {
	accountA := uuid.New()
	fitterA := dbtest.CreateTestFitter(t, db, "Fitter A", accountA)
	fitterB := dbtest.CreateTestFitter(t, db, "Fitter B", uuid.New())

	product := dbtest.CreateTestProduct(t, db, "Equipe", "Expression")

	dbtest.CreateTestOrder(t, db, dbtest.OrderParams{
		SerialNumber:  "SN-A-1",
		ProductID:     &product,
		StockHolderID: &fitterA,
		StatusCode:    "delivered",
		Demo:          true,
	})
	dbtest.CreateTestOrder(t, db, dbtest.OrderParams{
		SerialNumber:  "SN-B-1",
		ProductID:     &product,
		StockHolderID: &fitterB,
		StatusCode:    "delivered",
	})
	// A customer order, not held as stock anywhere.
	dbtest.CreateTestOrder(t, db, dbtest.OrderParams{
		SerialNumber: "SN-SOLD",
		ProductID:    &product,
		StatusCode:   "in_production",
	})

	return accountA, fitterA, fitterB
}

func (s *StockSuite) refreshProjections(t *testing.T, adminToken string) {
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/projections/refresh", nil, adminToken)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
}

func (s *StockSuite) TestStockScopes() {
	s.Run("mine returns only the caller's stock", func() {
		t := s.T()
		accountA, fitterA, _ := seedStock(t, s.DB)

		token := authtest.GenerateToken(t, s.Config.JWT, accountA, user.RoleFitter)
		adminToken := authtest.GenerateToken(t, s.Config.JWT, uuid.New(), user.RoleAdmin)
		s.refreshProjections(t, adminToken)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, stockURL+"?scope=mine", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.StockListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Items, 1)
		require.Equal(t, fitterA, body.Items[0].HolderID)
		require.NotNil(t, body.Items[0].SerialNumber)
		require.Equal(t, "SN-A-1", *body.Items[0].SerialNumber)
		require.NotEmpty(t, body.Links.Self)
	})

	s.Run("available excludes the caller's own stock", func() {
		t := s.T()
		accountA, _, fitterB := seedStock(t, s.DB)

		token := authtest.GenerateToken(t, s.Config.JWT, accountA, user.RoleFitter)
		adminToken := authtest.GenerateToken(t, s.Config.JWT, uuid.New(), user.RoleAdmin)
		s.refreshProjections(t, adminToken)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, stockURL+"?scope=available", nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.StockListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Items, 1)
		require.Equal(t, fitterB, body.Items[0].HolderID)
	})

	s.Run("all is forbidden for the front-line role", func() {
		t := s.T()
		accountA, _, _ := seedStock(t, s.DB)

		token := authtest.GenerateToken(t, s.Config.JWT, accountA, user.RoleFitter)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, stockURL+"?scope=all", nil, token)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("all returns every stock row for admins", func() {
		t := s.T()
		seedStock(t, s.DB)

		adminToken := authtest.GenerateToken(t, s.Config.JWT, uuid.New(), user.RoleAdmin)
		s.refreshProjections(t, adminToken)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, stockURL+"?scope=all", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.StockListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Items, 2, "the sold order must not count as stock")
	})

	s.Run("caller without a fitter record gets an empty page", func() {
		t := s.T()
		seedStock(t, s.DB)

		// Account that maps to no fitter row.
		token := authtest.GenerateToken(t, s.Config.JWT, uuid.New(), user.RoleFitter)
		adminToken := authtest.GenerateToken(t, s.Config.JWT, uuid.New(), user.RoleAdmin)
		s.refreshProjections(t, adminToken)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, stockURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.StockListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Empty(t, body.Items)
		require.Zero(t, body.TotalCount)
	})

	s.Run("unauthenticated request is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, stockURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// StockFallbackSuite runs in its own environment: the projection must never
// have been marked built, which the shared suite cannot guarantee.
type StockFallbackSuite struct {
	e2e.SharedSuite
}

func TestStockFallbackSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(StockFallbackSuite))
}

func (s *StockFallbackSuite) TestStockServesBeforeFirstRebuild() {
	s.Run("live join answers while the projection is unbuilt", func() {
		t := s.T()
		accountA, fitterA, _ := seedStock(t, s.DB)

		// No refresh: order_summaries is empty and never marked built, so
		// the query runs against the live join.
		token := authtest.GenerateToken(t, s.Config.JWT, accountA, user.RoleFitter)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, stockURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var body response.StockListResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body.Items, 1)
		require.Equal(t, fitterA, body.Items[0].HolderID)
	})
}
