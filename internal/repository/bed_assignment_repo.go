package repository

import (
	"context"
	"fmt"

	"nursing-home-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BedAssignmentRepository struct {
	db *gorm.DB
}

func NewBedAssignmentRepo(db *gorm.DB) *BedAssignmentRepository {
	return &BedAssignmentRepository{db: db}
}

// ListBedAssignments retrieves the full assignment history
func (r *BedAssignmentRepository) ListBedAssignments(ctx context.Context) ([]models.BedAssignment, error) {
	var assignments []models.BedAssignment
	err := conn(ctx, r.db).
		Order("assigned_date ASC").
		Find(&assignments).Error
	return assignments, err
}

// ListBedAssignmentsByResident retrieves one resident's assignments
func (r *BedAssignmentRepository) ListBedAssignmentsByResident(ctx context.Context, residentID uint) ([]models.BedAssignment, error) {
	var assignments []models.BedAssignment
	err := conn(ctx, r.db).
		Where("resident_id = ?", residentID).
		Order("assigned_date DESC").
		Find(&assignments).Error
	return assignments, err
}

// ListBedAssignmentsByBed retrieves a bed's assignments. Inside a
// transaction the rows are locked until commit.
func (r *BedAssignmentRepository) ListBedAssignmentsByBed(ctx context.Context, bedID uint) ([]models.BedAssignment, error) {
	var assignments []models.BedAssignment
	q := conn(ctx, r.db).Where("bed_id = ?", bedID)
	if inTransaction(ctx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Find(&assignments).Error
	return assignments, err
}

// UpdateBedAssignment applies a partial update
func (r *BedAssignmentRepository) UpdateBedAssignment(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := conn(ctx, r.db).
		Model(&models.BedAssignment{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("bed assignment %d: %w", id, ErrNotFound)
	}
	return nil
}

// CreateBedAssignment inserts a new assignment and fills in its ID
func (r *BedAssignmentRepository) CreateBedAssignment(ctx context.Context, assignment *models.BedAssignment) error {
	return conn(ctx, r.db).Create(assignment).Error
}
