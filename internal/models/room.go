package models

import "time"

const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Room represents a resident room. Every bed in a room is reserved for
// residents of the room's gender.
type Room struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	RoomNumber string `gorm:"size:20;not null;uniqueIndex" json:"room_number"`
	BedCount   int    `gorm:"default:1" json:"bed_count"`
	RoomType   string `gorm:"size:50" json:"room_type"`
	Gender     string `gorm:"type:enum('male','female');not null" json:"gender"`
	Floor      int    `gorm:"default:1" json:"floor"`
	Status     string `gorm:"size:20;default:'active'" json:"status"`
	// MainCarePlanID restricts the room to residents whose main care plan
	// matches. Null means no restriction.
	MainCarePlanID *uint     `gorm:"index" json:"main_care_plan_id,omitempty"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "rooms"
}
