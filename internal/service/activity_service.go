package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/repository"
)

const defaultActivityLimit = 50

// ActivityRecorder records an audit entry for an action a user performed.
// Recording is best-effort: callers log failures and keep going.
type ActivityRecorder interface {
	Record(ctx context.Context, userID uint, action string, metadata map[string]interface{}, ipAddress string)
}

// ActivityService exposes the user-facing audit trail.
type ActivityService interface {
	ActivityRecorder
	ListForUser(ctx context.Context, userID uint, limit int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, userID uint, action string, metadata map[string]interface{}, ipAddress string) {
	action = strings.TrimSpace(action)
	if userID == 0 || action == "" {
		return
	}

	entry := models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Metadata:  sanitizeMetadata(metadata),
		IPAddress: ipAddress,
	}
	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Str("action", action).Msg("failed to persist activity log")
	}
}

func (s *activityService) ListForUser(ctx context.Context, userID uint, limit int) ([]dto.ActivityResponse, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}

	entries, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return dto.NewActivityResponseSlice(entries), nil
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") || strings.Contains(lower, "otp") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}
