package dto

import (
	"time"

	"github.com/campusconnect/campus-api/internal/models"
)

// ProfileResponse is the full account view returned to the owning user.
type ProfileResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	Email         string              `json:"email"`
	Skills        []string            `json:"skills"`
	Role          string              `json:"role"`
	Bio           string              `json:"bio"`
	Phone         string              `json:"phone"`
	PhotoURL      string              `json:"photoUrl"`
	EmailVerified bool                `json:"emailVerified"`
	PhoneVerified bool                `json:"phoneVerified"`
	Settings      models.UserSettings `json:"settings"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewProfileResponse converts a model into the profile DTO.
func NewProfileResponse(user models.User) ProfileResponse {
	return ProfileResponse{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Skills:        append([]string(nil), user.Skills...),
		Role:          user.Role,
		Bio:           user.Bio,
		Phone:         user.Phone,
		PhotoURL:      user.PhotoURL,
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		Settings:      user.Settings,
		CreatedAt:     user.CreatedAt,
	}
}

// UpdateProfileRequest carries partial profile edits; nil fields are untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=80"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	PhotoURL *string `json:"photoUrl" validate:"omitempty,url"`
}

// UpdateSkillsRequest replaces the user's skill list verbatim.
type UpdateSkillsRequest struct {
	Skills []string `json:"skills" validate:"required,dive,min=1,max=80"`
}

// UpdateSettingsRequest merges the provided fields over the stored settings.
type UpdateSettingsRequest struct {
	EmailNotifications     *bool   `json:"emailNotifications"`
	SMSNotifications       *bool   `json:"smsNotifications"`
	PushNotifications      *bool   `json:"pushNotifications"`
	WeeklyDigest           *bool   `json:"weeklyDigest"`
	ApplicationAlerts      *bool   `json:"applicationAlerts"`
	ProfileVisibility      *string `json:"profileVisibility" validate:"omitempty,oneof=private campus public"`
	ShowProfilePublic      *bool   `json:"showProfilePublic"`
	SearchableByRecruiters *bool   `json:"searchableByRecruiters"`
	TwoFactor              *bool   `json:"twoFactor"`
	Theme                  *string `json:"theme" validate:"omitempty,oneof=system light dark"`
	Language               *string `json:"language" validate:"omitempty,max=16"`
	Timezone               *string `json:"timezone" validate:"omitempty,max=64"`
}

// ChangePasswordRequest verifies the current credential before rotating it.
type ChangePasswordRequest struct {
	Current     string `json:"current" validate:"required,max=128"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

// SendPhoneOTPRequest asks for a verification code for the given number.
type SendPhoneOTPRequest struct {
	Phone string `json:"phone" validate:"required,max=32"`
}

// VerifyPhoneOTPRequest redeems a previously issued code.
type VerifyPhoneOTPRequest struct {
	Phone string `json:"phone" validate:"required,max=32"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ActivityResponse is one audit trail entry in the user's own history.
type ActivityResponse struct {
	ID        uint                   `json:"id"`
	Action    string                 `json:"action"`
	Metadata  map[string]interface{} `json:"metadata"`
	IPAddress string                 `json:"ipAddress"`
	CreatedAt time.Time              `json:"created_at"`
}

// NewActivityResponse converts an audit entry into its DTO.
func NewActivityResponse(entry models.ActivityLog) ActivityResponse {
	return ActivityResponse{
		ID:        entry.ID,
		Action:    entry.Action,
		Metadata:  entry.Metadata,
		IPAddress: entry.IPAddress,
		CreatedAt: entry.CreatedAt,
	}
}

// NewActivityResponseSlice converts a slice of audit entries into DTOs.
func NewActivityResponseSlice(entries []models.ActivityLog) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewActivityResponse(entry))
	}
	return responses
}

// PhotoUploadResponse returns the stored photo location.
type PhotoUploadResponse struct {
	PhotoURL string `json:"photoUrl"`
}
