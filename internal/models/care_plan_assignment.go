package models

import (
	"time"

	"gorm.io/datatypes"
)

const CarePlanStatusActive = "active"

// CarePlanAssignment links a resident to an ordered list of care plans. The
// first plan is the main plan. RoomID mirrors the resident's physical room so
// billing and service location follow bed transfers.
type CarePlanAssignment struct {
	ID          uint                     `gorm:"primaryKey" json:"id"`
	ResidentID  uint                     `gorm:"not null;index" json:"resident_id"`
	CarePlanIDs datatypes.JSONSlice[uint] `gorm:"type:json" json:"care_plan_ids"`
	StartDate   time.Time                `gorm:"not null" json:"start_date"`
	EndDate     *time.Time               `json:"end_date"`
	Status      string                   `gorm:"size:20;default:'active'" json:"status"`
	RoomID      *uint                    `gorm:"index" json:"room_id"`
	CreatedAt   time.Time                `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time                `gorm:"default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for CarePlanAssignment model
func (CarePlanAssignment) TableName() string {
	return "care_plan_assignments"
}

// MainCarePlanID returns the first care plan id, if any.
func (c *CarePlanAssignment) MainCarePlanID() (uint, bool) {
	if len(c.CarePlanIDs) == 0 {
		return 0, false
	}
	return c.CarePlanIDs[0], true
}
