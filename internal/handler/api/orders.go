package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	reqdto "saddleview/internal/handler/dto/request"
	resdto "saddleview/internal/handler/dto/response"
	"saddleview/internal/handler/httperr"
	"saddleview/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderQueries queries.OrderQueries
}

func NewOrderHandler(orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		orderQueries: orderQueries,
	}
}

// @Summary List enriched orders
// @Description List orders with joined customer, fitter, factory, product and status data
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status code filter"
// @Param customer_id query int false "Customer filter"
// @Param urgent query bool false "Urgent-only filter"
// @Param sort query string false "Sort key"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req reqdto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameters", nil)
		return
	}

	page, err := h.orderQueries.List(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderPage(page))
}

// @Summary Get order edit view
// @Description Get the editable field set of one order, including the price breakdown
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} resdto.OrderEditResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/edit [get]
func (h *OrderHandler) GetEditView(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format", nil)
		return
	}

	view, err := h.orderQueries.GetEditView(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, queries.ErrOrderNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
			return
		}
		h.writeQueryError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderEditView(view))
}

func (h *OrderHandler) writeQueryError(c *gin.Context, err error) {
	if errors.Is(err, queries.ErrFallbackTimeout) {
		httperr.AbortRetryable(c, err, "Read model temporarily unavailable, retry later", 5*time.Second)
		return
	}
	httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to load orders", nil)
}
