package models

import (
	"time"

	"gorm.io/datatypes"
)

// User roles accepted by the portal.
const (
	RoleStudent         = "student"
	RoleAdmin           = "admin"
	RoleRecruiter       = "recruiter"
	RoleClubCoordinator = "club_coordinator"
)

// UserSettings captures per-user notification and presentation preferences.
type UserSettings struct {
	EmailNotifications     bool   `gorm:"not null;default:true" json:"emailNotifications"`
	SMSNotifications       bool   `gorm:"not null;default:false" json:"smsNotifications"`
	PushNotifications      bool   `gorm:"not null;default:true" json:"pushNotifications"`
	WeeklyDigest           bool   `gorm:"not null;default:true" json:"weeklyDigest"`
	ApplicationAlerts      bool   `gorm:"not null;default:true" json:"applicationAlerts"`
	ProfileVisibility      string `gorm:"size:16;not null;default:campus" json:"profileVisibility"`
	ShowProfilePublic      bool   `gorm:"not null;default:true" json:"showProfilePublic"`
	SearchableByRecruiters bool   `gorm:"not null;default:true" json:"searchableByRecruiters"`
	TwoFactor              bool   `gorm:"not null;default:false" json:"twoFactor"`
	Theme                  string `gorm:"size:16;not null;default:system" json:"theme"`
	Language               string `gorm:"size:16;not null;default:en" json:"language"`
	Timezone               string `gorm:"size:64;not null;default:UTC" json:"timezone"`
}

// DefaultUserSettings returns the settings applied to newly registered accounts.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		EmailNotifications:     true,
		SMSNotifications:       false,
		PushNotifications:      true,
		WeeklyDigest:           true,
		ApplicationAlerts:      true,
		ProfileVisibility:      "campus",
		ShowProfilePublic:      true,
		SearchableByRecruiters: true,
		TwoFactor:              false,
		Theme:                  "system",
		Language:               "en",
		Timezone:               "UTC",
	}
}

// User represents a portal account. The skill list is an ordered sequence;
// the data layer does not deduplicate it.
type User struct {
	ID            uint                          `gorm:"primaryKey" json:"id"`
	Name          string                        `gorm:"size:80;not null" json:"name"`
	Email         string                        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password      string                        `gorm:"size:255;not null" json:"-"`
	Skills        datatypes.JSONSlice[string]   `json:"skills"`
	Role          string                        `gorm:"size:32;not null;default:student" json:"role"`
	Bio           string                        `gorm:"type:text" json:"bio"`
	Phone         string                        `gorm:"size:32" json:"phone"`
	PhotoURL      string                        `gorm:"size:512" json:"photoUrl"`
	EmailVerified bool                          `gorm:"not null;default:false" json:"emailVerified"`
	PhoneVerified bool                          `gorm:"not null;default:false" json:"phoneVerified"`
	Settings      UserSettings                  `gorm:"embedded;embeddedPrefix:settings_" json:"settings"`
	CreatedAt     time.Time                     `json:"created_at"`
	UpdatedAt     time.Time                     `json:"updated_at"`
}
