package api

import (
	"errors"
	"net/http"

	reqdto "saddleview/internal/handler/dto/request"
	"saddleview/internal/handler/httperr"
	"saddleview/internal/usecase"

	"github.com/gin-gonic/gin"
)

// MutationHandler receives post-commit notices from the write side. Each
// notice invalidates cached pages and schedules a debounced rebuild.
type MutationHandler struct {
	refreshUseCase usecase.RefreshUseCase
}

func NewMutationHandler(refreshUseCase usecase.RefreshUseCase) *MutationHandler {
	return &MutationHandler{
		refreshUseCase: refreshUseCase,
	}
}

// @Summary Report a base-table mutation
// @Description Mark the read model dirty after a write to one of the source tables
// @Tags internal
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.MutationNotice true "Mutated table and record"
// @Success 202 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /internal/mutations [post]
func (h *MutationHandler) Notify(c *gin.Context) {
	var req reqdto.MutationNotice
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := h.refreshUseCase.OnMutation(c.Request.Context(), req.Table, req.RecordID); err != nil {
		if errors.Is(err, usecase.ErrUnknownTable) {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Table is not part of the read model", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to schedule refresh", nil)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "scheduled",
	})
}
