package models

import (
	"time"

	"gorm.io/gorm"
)

// Announcement is an official notice published by staff. Featured
// announcements sort first; an expired or inactive announcement is hidden
// from the public listing but kept for the record.
type Announcement struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	StaffID   uint           `gorm:"not null;index" json:"staff_id"`
	Staff     User           `gorm:"foreignKey:StaffID" json:"staff"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Featured  bool           `gorm:"not null;default:false" json:"featured"`
	Active    bool           `gorm:"not null;default:true" json:"active"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
