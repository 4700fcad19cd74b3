package handler

import (
	"fmt"
	"net/http"
	"time"

	"nursing-home-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RoomHandler struct {
	transferService TransferService
	logger          *zap.Logger
}

func NewRoomHandler(transferService TransferService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		transferService: transferService,
		logger:          logger,
	}
}

// ListRooms retrieves all rooms with bed counts
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.transferService.ListRoomsWithOccupancy(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch rooms", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch rooms")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// ExportOccupancy downloads every bed's status as a spreadsheet
func (h *RoomHandler) ExportOccupancy(c *gin.Context) {
	data, err := h.transferService.ExportOccupancy(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to export occupancy", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to export occupancy")
		return
	}

	filename := fmt.Sprintf("occupancy-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
