package dto

import "github.com/campusconnect/campus-api/internal/models"

// RegisterRequest is the payload for account creation. The role is validated
// against an allow-list in the auth service, not here, so that a requested
// "admin" can be downgraded instead of rejected.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Role     string `json:"role" validate:"omitempty,max=32"`
}

// LoginRequest is the payload for credential login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=128"`
}

// UserSummary is the compact identity block embedded in auth responses.
type UserSummary struct {
	ID     uint     `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Skills []string `json:"skills"`
	Role   string   `json:"role"`
}

// AuthResponse carries the session token and the authenticated identity.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// NewUserSummary converts a model into the auth identity block.
func NewUserSummary(user models.User) UserSummary {
	return UserSummary{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Skills: append([]string(nil), user.Skills...),
		Role:   user.Role,
	}
}
