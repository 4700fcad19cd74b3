package models

import "time"

const (
	BedTypeStandard = "standard"
	BedTypeElectric = "electric"
)

// Bed is reference data only. Occupancy is derived from bed assignments and
// never stored on the row.
type Bed struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BedNumber string    `gorm:"size:20;not null" json:"bed_number"`
	RoomID    uint      `gorm:"not null;index" json:"room_id"`
	BedType   string    `gorm:"type:enum('standard','electric');default:'standard'" json:"bed_type"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for Bed model
func (Bed) TableName() string {
	return "beds"
}
