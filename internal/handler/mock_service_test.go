package handler

import (
	"context"

	"nursing-home-backend/internal/models"
	"nursing-home-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type mockTransferService struct {
	mock.Mock
}

func (m *mockTransferService) Options(ctx context.Context, currentBedID, currentRoomID uint) (*service.TransferOptions, error) {
	args := m.Called(ctx, currentBedID, currentRoomID)
	opts, _ := args.Get(0).(*service.TransferOptions)
	return opts, args.Error(1)
}

func (m *mockTransferService) AvailableBeds(ctx context.Context, currentBedID, currentRoomID, targetRoomID uint) ([]service.BedAvailability, error) {
	args := m.Called(ctx, currentBedID, currentRoomID, targetRoomID)
	beds, _ := args.Get(0).([]service.BedAvailability)
	return beds, args.Error(1)
}

func (m *mockTransferService) ExecuteTransfer(ctx context.Context, req service.TransferRequest) (*service.TransferResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*service.TransferResult)
	return result, args.Error(1)
}

func (m *mockTransferService) ListRoomsWithOccupancy(ctx context.Context) ([]service.RoomOccupancy, error) {
	args := m.Called(ctx)
	rooms, _ := args.Get(0).([]service.RoomOccupancy)
	return rooms, args.Error(1)
}

func (m *mockTransferService) ResidentBedHistory(ctx context.Context, residentID uint) ([]models.BedAssignment, error) {
	args := m.Called(ctx, residentID)
	history, _ := args.Get(0).([]models.BedAssignment)
	return history, args.Error(1)
}

func (m *mockTransferService) ExportOccupancy(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
