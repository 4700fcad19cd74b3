package handler

import (
	"errors"
	"net/http"
	"strconv"

	"nursing-home-backend/internal/service"
	"nursing-home-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ResidentHandler struct {
	transferService TransferService
	logger          *zap.Logger
}

func NewResidentHandler(transferService TransferService, logger *zap.Logger) *ResidentHandler {
	return &ResidentHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// GetBedAssignments returns a resident's bed history, newest first
func (h *ResidentHandler) GetBedAssignments(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid resident ID")
		return
	}

	history, err := h.transferService.ResidentBedHistory(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Failed to fetch bed assignments", zap.Uint64("resident_id", id), zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch bed assignments")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"assignments": history,
		"count":       len(history),
	})
}
