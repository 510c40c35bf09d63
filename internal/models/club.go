package models

import (
	"time"

	"gorm.io/datatypes"
)

// Club is a campus organisation managed by a set of coordinators.
type Club struct {
	ID           uint                      `gorm:"primaryKey" json:"id"`
	Name         string                    `gorm:"size:120;not null" json:"name"`
	Description  string                    `gorm:"type:text" json:"description"`
	LogoURL      string                    `gorm:"size:512" json:"logo"`
	Coordinators datatypes.JSONSlice[uint] `json:"coordinators"`
	CreatedAt    time.Time                 `json:"created_at"`
	UpdatedAt    time.Time                 `json:"updated_at"`
}

// HasCoordinator reports whether the given user coordinates this club.
func (c Club) HasCoordinator(userID uint) bool {
	for _, id := range c.Coordinators {
		if id == userID {
			return true
		}
	}
	return false
}
