package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"nursing-home-backend/internal/middleware"
	"nursing-home-backend/internal/models"
	"nursing-home-backend/internal/service"
	"nursing-home-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TransferService is what the transfer, room and resident handlers need from
// the service layer.
type TransferService interface {
	Options(ctx context.Context, currentBedID, currentRoomID uint) (*service.TransferOptions, error)
	AvailableBeds(ctx context.Context, currentBedID, currentRoomID, targetRoomID uint) ([]service.BedAvailability, error)
	ExecuteTransfer(ctx context.Context, req service.TransferRequest) (*service.TransferResult, error)
	ListRoomsWithOccupancy(ctx context.Context) ([]service.RoomOccupancy, error)
	ResidentBedHistory(ctx context.Context, residentID uint) ([]models.BedAssignment, error)
	ExportOccupancy(ctx context.Context) ([]byte, error)
}

type TransferHandler struct {
	transferService TransferService
	logger          *zap.Logger
}

func NewTransferHandler(transferService TransferService, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

type executeTransferRequest struct {
	CurrentBedID      uint `json:"current_bed_id" binding:"required"`
	CurrentRoomID     uint `json:"current_room_id" binding:"required"`
	DestinationBedID  uint `json:"destination_bed_id"`
	DestinationRoomID uint `json:"destination_room_id"`
}

// GetOptions returns the rooms the resident in bed_id may move to
func (h *TransferHandler) GetOptions(c *gin.Context) {
	bedID, roomID, ok := currentPlacement(c)
	if !ok {
		return
	}

	opts, err := h.transferService.Options(c.Request.Context(), bedID, roomID)
	if err != nil {
		h.respondError(c, err, "Failed to load transfer options")
		return
	}

	utils.SuccessResponse(c, opts)
}

// GetAvailableBeds lists the free beds of target_room_id
func (h *TransferHandler) GetAvailableBeds(c *gin.Context) {
	bedID, roomID, ok := currentPlacement(c)
	if !ok {
		return
	}
	targetRoomID, err := parseUintQuery(c, "target_room_id")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Please select a destination room")
		return
	}

	beds, err := h.transferService.AvailableBeds(c.Request.Context(), bedID, roomID, targetRoomID)
	if err != nil {
		h.respondError(c, err, "Failed to load available beds")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"beds":  beds,
		"count": len(beds),
	})
}

// ExecuteTransfer moves a resident to the selected bed
func (h *TransferHandler) ExecuteTransfer(c *gin.Context) {
	var req executeTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "current_bed_id and current_room_id are required")
		return
	}

	result, err := h.transferService.ExecuteTransfer(c.Request.Context(), service.TransferRequest{
		CurrentBedID:      req.CurrentBedID,
		CurrentRoomID:     req.CurrentRoomID,
		DestinationBedID:  req.DestinationBedID,
		DestinationRoomID: req.DestinationRoomID,
		ActingUserID:      middleware.CurrentUserID(c),
	})
	if err != nil {
		h.respondError(c, err, "Failed to complete bed transfer")
		return
	}

	utils.SuccessResponse(c, result)
}

// respondError maps service errors onto status codes. fallback is shown for
// anything unexpected.
func (h *TransferHandler) respondError(c *gin.Context, err error, fallback string) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, service.ErrValidation):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrMissingCurrentAssignment):
		utils.ErrorResponse(c, http.StatusNotFound, "The resident's current bed assignment could not be found")
	case errors.Is(err, service.ErrConcurrentModification):
		utils.ErrorResponse(c, http.StatusConflict, "The selected bed is no longer available, please choose another")
	case errors.Is(err, service.ErrPartialTransfer):
		h.logger.Error("Bed transfer left partial state", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Transfer was only partially applied, please contact an administrator")
	default:
		var te *service.TransferError
		if errors.As(err, &te) {
			utils.ErrorResponse(c, http.StatusBadGateway, fallback)
			return
		}
		h.logger.Error(fallback, zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, fallback)
	}
}

func currentPlacement(c *gin.Context) (bedID, roomID uint, ok bool) {
	bedID, bedErr := parseUintQuery(c, "bed_id")
	roomID, roomErr := parseUintQuery(c, "room_id")
	if bedErr != nil || roomErr != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "bed_id and room_id query parameters are required")
		return 0, 0, false
	}
	return bedID, roomID, true
}

func parseUintQuery(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Query(name), 10, 32)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, strconv.ErrRange
	}
	return uint(v), nil
}
