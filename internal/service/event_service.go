package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/repository"
)

// EventService manages the campus event calendar.
type EventService interface {
	Create(ctx context.Context, creatorID uint, req dto.EventCreateRequest) (dto.EventResponse, error)
	List(ctx context.Context) ([]dto.EventResponse, error)
}

type eventService struct {
	repo      repository.EventRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewEventService constructs the event service.
func NewEventService(repo repository.EventRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) EventService {
	return &eventService{
		repo:      repo,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "event_service").Logger(),
	}
}

func (s *eventService) Create(ctx context.Context, creatorID uint, req dto.EventCreateRequest) (dto.EventResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.EventResponse{}, err
	}

	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return dto.EventResponse{}, fmt.Errorf("invalid date: %w", err)
	}

	venue := strings.TrimSpace(req.Venue)
	if venue == "" {
		venue = defaultLocation
	}

	event := models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		Venue:       venue,
		CreatedBy:   &creatorID,
	}

	if err := s.repo.Create(ctx, &event); err != nil {
		s.logger.Error().Err(err).Msg("failed to create event")
		return dto.EventResponse{}, err
	}

	s.activity.Record(ctx, creatorID, "event:create", map[string]interface{}{"event_id": event.ID}, "")

	return dto.NewEventResponse(event), nil
}

func (s *eventService) List(ctx context.Context) ([]dto.EventResponse, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewEventResponseSlice(events), nil
}
