package repository

import (
	"context"

	"nursing-home-backend/internal/models"

	"gorm.io/gorm"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// ListRooms retrieves every room ordered by room number
func (r *RoomRepository) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	err := conn(ctx, r.db).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

// ListBeds retrieves every bed ordered by room and bed number
func (r *RoomRepository) ListBeds(ctx context.Context) ([]models.Bed, error) {
	var beds []models.Bed
	err := conn(ctx, r.db).
		Order("room_id ASC, bed_number ASC").
		Find(&beds).Error
	return beds, err
}
