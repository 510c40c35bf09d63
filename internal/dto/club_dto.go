package dto

import (
	"time"

	"github.com/campusconnect/campus-api/internal/models"
)

// ClubUpdateRequest carries partial club edits; nil fields are untouched.
type ClubUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	LogoURL     *string `json:"logo" validate:"omitempty,url"`
}

// ClubResponse is the serialized club representation.
type ClubResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	LogoURL      string    `json:"logo"`
	Coordinators []uint    `json:"coordinators"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewClubResponse converts a model into a DTO.
func NewClubResponse(model models.Club) ClubResponse {
	return ClubResponse{
		ID:           model.ID,
		Name:         model.Name,
		Description:  model.Description,
		LogoURL:      model.LogoURL,
		Coordinators: append([]uint(nil), model.Coordinators...),
		CreatedAt:    model.CreatedAt,
	}
}

// NewClubResponseSlice converts a slice of models into DTOs.
func NewClubResponseSlice(clubs []models.Club) []ClubResponse {
	responses := make([]ClubResponse, 0, len(clubs))
	for _, club := range clubs {
		responses = append(responses, NewClubResponse(club))
	}
	return responses
}
