package api

import (
	"errors"
	"net/http"
	"time"

	reqdto "saddleview/internal/handler/dto/request"
	resdto "saddleview/internal/handler/dto/response"
	"saddleview/internal/handler/httperr"
	"saddleview/internal/handler/middleware"
	"saddleview/internal/pkg/errs"
	"saddleview/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	stockQueries queries.StockQueries
}

func NewStockHandler(stockQueries queries.StockQueries) *StockHandler {
	return &StockHandler{
		stockQueries: stockQueries,
	}
}

// @Summary List stock
// @Description List saddles currently held as stock, scoped to the caller's role
// @Tags stock
// @Produce json
// @Security BearerAuth
// @Param scope query string false "mine (default), available, or all"
// @Param q query string false "Search over serial number, brand, model and holder"
// @Param sort query string false "Sort key"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} resdto.StockListResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /stock [get]
func (h *StockHandler) ListStock(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("missing account in context"), "Internal server error", nil)
		return
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errs.New("missing role in context"), "Internal server error", nil)
		return
	}

	var req reqdto.ListStockRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	actor := queries.Actor{AccountID: accountID, Role: role}
	page, err := h.stockQueries.List(c.Request.Context(), actor, req.ToQuery())
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidScope):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Unknown scope", nil)
		case errors.Is(err, queries.ErrScopeRejected):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Requested scope is not permitted for this role", nil)
		case errors.Is(err, queries.ErrFallbackTimeout):
			httperr.AbortRetryable(c, err, "Read model temporarily unavailable, retry later", 5*time.Second)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load stock", nil)
		}
		return
	}

	response := resdto.FromStockPage(page, c.Request.URL.Path, c.Request.URL.Query())
	c.JSON(http.StatusOK, response)
}
