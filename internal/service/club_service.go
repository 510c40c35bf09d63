package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/repository"
)

var (
	// ErrClubNotFound is returned when the club does not exist.
	ErrClubNotFound = errors.New("club not found")
	// ErrNotCoordinator is returned when a non-coordinator edits a club.
	ErrNotCoordinator = errors.New("user does not coordinate this club")
)

// ClubService manages campus clubs and coordinator-gated edits.
type ClubService interface {
	List(ctx context.Context) ([]dto.ClubResponse, error)
	Get(ctx context.Context, id uint) (dto.ClubResponse, error)
	Update(ctx context.Context, clubID, userID uint, role string, req dto.ClubUpdateRequest) (dto.ClubResponse, error)
}

type clubService struct {
	repo      repository.ClubRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewClubService constructs the club service.
func NewClubService(repo repository.ClubRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) ClubService {
	return &clubService{
		repo:      repo,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "club_service").Logger(),
	}
}

func (s *clubService) List(ctx context.Context) ([]dto.ClubResponse, error) {
	clubs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewClubResponseSlice(clubs), nil
}

func (s *clubService) Get(ctx context.Context, id uint) (dto.ClubResponse, error) {
	club, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClubResponse{}, ErrClubNotFound
		}
		return dto.ClubResponse{}, err
	}
	return dto.NewClubResponse(club), nil
}

func (s *clubService) Update(ctx context.Context, clubID, userID uint, role string, req dto.ClubUpdateRequest) (dto.ClubResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ClubResponse{}, err
	}

	club, err := s.repo.GetByID(ctx, clubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClubResponse{}, ErrClubNotFound
		}
		return dto.ClubResponse{}, err
	}

	// Admins may edit any club; everyone else must be a coordinator.
	if role != models.RoleAdmin && !club.HasCoordinator(userID) {
		return dto.ClubResponse{}, ErrNotCoordinator
	}

	if req.Name != nil {
		club.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		club.Description = strings.TrimSpace(*req.Description)
	}
	if req.LogoURL != nil {
		club.LogoURL = *req.LogoURL
	}

	if err := s.repo.Update(ctx, &club); err != nil {
		s.logger.Error().Err(err).Uint("club_id", clubID).Msg("failed to update club")
		return dto.ClubResponse{}, err
	}

	s.activity.Record(ctx, userID, "club:update", map[string]interface{}{"club_id": clubID}, "")
	return dto.NewClubResponse(club), nil
}
