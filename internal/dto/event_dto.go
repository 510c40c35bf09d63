package dto

import (
	"time"

	"github.com/campusconnect/campus-api/internal/models"
)

// EventCreateRequest is the payload for scheduling a campus event.
type EventCreateRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"required,min=10"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Venue       string `json:"venue" validate:"omitempty,max=120"`
}

// EventResponse is the serialized event representation.
type EventResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	CreatedBy   *uint     `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewEventResponse converts a model into a DTO.
func NewEventResponse(model models.Event) EventResponse {
	return EventResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Date:        model.Date,
		Venue:       model.Venue,
		CreatedBy:   model.CreatedBy,
		CreatedAt:   model.CreatedAt,
	}
}

// NewEventResponseSlice converts a slice of models into DTOs.
func NewEventResponseSlice(events []models.Event) []EventResponse {
	responses := make([]EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, NewEventResponse(event))
	}
	return responses
}
