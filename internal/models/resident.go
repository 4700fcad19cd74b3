package models

import "time"

// Resident is owned by the resident records module; transfers only read it.
type Resident struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:255;not null" json:"full_name"`
	Gender    string    `gorm:"type:enum('male','female');not null" json:"gender"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName specifies the table name for Resident model
func (Resident) TableName() string {
	return "residents"
}
