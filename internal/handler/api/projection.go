package api

import (
	"errors"
	"net/http"

	resdto "saddleview/internal/handler/dto/response"
	"saddleview/internal/handler/httperr"
	"saddleview/internal/infra/projection"
	"saddleview/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ProjectionStatusReader exposes per-projection build state to the API.
type ProjectionStatusReader interface {
	Status(name string) projection.Status
}

type ProjectionHandler struct {
	refreshUseCase usecase.RefreshUseCase
	status         ProjectionStatusReader
}

func NewProjectionHandler(refreshUseCase usecase.RefreshUseCase, status ProjectionStatusReader) *ProjectionHandler {
	return &ProjectionHandler{
		refreshUseCase: refreshUseCase,
		status:         status,
	}
}

// @Summary Refresh one projection
// @Description Rebuild a projection table; concurrent requests coalesce into the in-flight rebuild
// @Tags projections
// @Produce json
// @Security BearerAuth
// @Param name path string true "Projection name"
// @Success 202 {object} resdto.RefreshResponse
// @Failure 404 {object} map[string]string
// @Router /projections/{name}/refresh [post]
func (h *ProjectionHandler) Refresh(c *gin.Context) {
	name := c.Param("name")

	outcome, err := h.refreshUseCase.Refresh(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownProjection) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Unknown projection", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Projection refresh failed", nil)
		return
	}

	c.JSON(http.StatusAccepted, resdto.FromRefreshOutcome(name, outcome))
}

// @Summary Refresh all projections
// @Description Rebuild every projection in dependency order
// @Tags projections
// @Produce json
// @Security BearerAuth
// @Success 202 {object} map[string]string
// @Router /projections/refresh [post]
func (h *ProjectionHandler) RefreshAll(c *gin.Context) {
	if err := h.refreshUseCase.RefreshAll(c.Request.Context()); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Projection refresh failed", nil)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "refreshed",
	})
}

// @Summary Projection status
// @Description Report build state and last refresh time of every projection
// @Tags projections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ProjectionStatusResponse
// @Router /projections [get]
func (h *ProjectionHandler) List(c *gin.Context) {
	response := make([]*resdto.ProjectionStatusResponse, len(projection.Names))
	for i, name := range projection.Names {
		response[i] = resdto.FromProjectionStatus(name, h.status.Status(name))
	}
	c.JSON(http.StatusOK, response)
}
