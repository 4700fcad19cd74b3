package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the repositories the transfer service reads and writes
// through. Calls made with the ctx handed to WithinTransaction run on the
// transaction.
type Store struct {
	*RoomRepository
	*BedAssignmentRepository
	*CarePlanRepository
	*ResidentRepository

	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		RoomRepository:          NewRoomRepo(db),
		BedAssignmentRepository: NewBedAssignmentRepo(db),
		CarePlanRepository:      NewCarePlanRepo(db),
		ResidentRepository:      NewResidentRepo(db),
		db:                      db,
	}
}

// WithinTransaction runs fn in a database transaction. fn returning an
// error rolls everything back.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}
