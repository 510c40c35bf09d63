package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is the append-only audit trail of user actions. Entries are
// written by the system and read back only by the acting user.
type ActivityLog struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"not null;index" json:"userId"`
	Action    string            `gorm:"size:120;not null" json:"action"`
	Metadata  datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	IPAddress string            `gorm:"size:64" json:"ipAddress"`
	CreatedAt time.Time         `json:"created_at"`
}
