package models

import "time"

const (
	AssignmentStatusActive    = "active"
	AssignmentStatusExchanged = "exchanged"
)

// BedAssignment is one row of the append-only bed occupancy history. An
// assignment is ended by setting UnassignedDate, never by deleting it.
type BedAssignment struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ResidentID     uint       `gorm:"not null;index" json:"resident_id"`
	BedID          uint       `gorm:"not null;index" json:"bed_id"`
	RoomID         uint       `gorm:"not null;index" json:"room_id"`
	AssignedDate   time.Time  `gorm:"not null" json:"assigned_date"`
	UnassignedDate *time.Time `json:"unassigned_date"`
	Status         string     `gorm:"size:20;default:'active'" json:"status"`
	AssignedBy     *uint      `json:"assigned_by"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for BedAssignment model
func (BedAssignment) TableName() string {
	return "bed_assignments"
}

// ActiveAt reports whether the assignment still holds its bed at t: the
// unassigned date is unset or strictly after t.
func (a *BedAssignment) ActiveAt(t time.Time) bool {
	return a.UnassignedDate == nil || a.UnassignedDate.After(t)
}
