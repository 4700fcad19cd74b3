package service

import (
	"context"

	"nursing-home-backend/internal/models"
)

// TransferStore is the data-access contract the transfer service reads
// snapshots from and writes assignments through. It is implemented by the
// gorm repository store and by the remote REST client.
type TransferStore interface {
	ListRooms(ctx context.Context) ([]models.Room, error)
	ListBeds(ctx context.Context) ([]models.Bed, error)
	ListBedAssignments(ctx context.Context) ([]models.BedAssignment, error)
	ListBedAssignmentsByResident(ctx context.Context, residentID uint) ([]models.BedAssignment, error)
	ListBedAssignmentsByBed(ctx context.Context, bedID uint) ([]models.BedAssignment, error)
	ListCarePlanAssignments(ctx context.Context, residentID uint) ([]models.CarePlanAssignment, error)
	GetResident(ctx context.Context, id uint) (*models.Resident, error)
	UpdateBedAssignment(ctx context.Context, id uint, updates map[string]interface{}) error
	CreateBedAssignment(ctx context.Context, assignment *models.BedAssignment) error
	UpdateCarePlanAssignment(ctx context.Context, id uint, updates map[string]interface{}) error
}

// Transactor is implemented by stores that can run several writes in one
// transaction. Store calls made with the ctx passed to fn join the
// transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// AuditRecorder persists an audit trail entry.
type AuditRecorder interface {
	CreateAuditLog(ctx context.Context, userID *uint, action string, details string) error
}
