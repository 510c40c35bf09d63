package models

import "time"

// Event is a scheduled campus event.
type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:120;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Venue       string    `gorm:"size:120;not null" json:"venue"`
	CreatedBy   *uint     `gorm:"index" json:"createdBy"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
