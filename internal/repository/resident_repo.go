package repository

import (
	"context"
	"errors"
	"fmt"

	"nursing-home-backend/internal/models"

	"gorm.io/gorm"
)

type ResidentRepository struct {
	db *gorm.DB
}

func NewResidentRepo(db *gorm.DB) *ResidentRepository {
	return &ResidentRepository{db: db}
}

// GetResident retrieves a resident by ID
func (r *ResidentRepository) GetResident(ctx context.Context, id uint) (*models.Resident, error) {
	var resident models.Resident
	err := conn(ctx, r.db).Where("id = ?", id).First(&resident).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("resident %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &resident, nil
}
