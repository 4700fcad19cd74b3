package repository

import (
	"context"
	"fmt"

	"nursing-home-backend/internal/models"

	"gorm.io/gorm"
)

type CarePlanRepository struct {
	db *gorm.DB
}

func NewCarePlanRepo(db *gorm.DB) *CarePlanRepository {
	return &CarePlanRepository{db: db}
}

// ListCarePlanAssignments retrieves a resident's care plan assignments in
// insertion order
func (r *CarePlanRepository) ListCarePlanAssignments(ctx context.Context, residentID uint) ([]models.CarePlanAssignment, error) {
	var assignments []models.CarePlanAssignment
	err := conn(ctx, r.db).
		Where("resident_id = ?", residentID).
		Order("id ASC").
		Find(&assignments).Error
	return assignments, err
}

// UpdateCarePlanAssignment applies a partial update
func (r *CarePlanRepository) UpdateCarePlanAssignment(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := conn(ctx, r.db).
		Model(&models.CarePlanAssignment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("care plan assignment %d: %w", id, ErrNotFound)
	}
	return nil
}
