package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/observability"
	"github.com/campusconnect/campus-api/internal/repository"
)

var (
	// ErrOpportunityNotFound is returned when the opportunity does not exist.
	ErrOpportunityNotFound = errors.New("opportunity not found")
	// ErrAlreadyApplied is returned when the user already holds an application.
	ErrAlreadyApplied = errors.New("already applied to this opportunity")
	// ErrOpportunityClosed is returned when applying to a closed opportunity.
	ErrOpportunityClosed = errors.New("opportunity is closed")
	// ErrApplicationNotFound is returned when the caller never applied.
	ErrApplicationNotFound = errors.New("application not found")
)

// Defaults applied when the poster leaves organization details blank.
const (
	defaultCompany  = "Campus Organization"
	defaultLocation = "On-campus"
)

// OpportunityService implements the opportunity lifecycle: posting,
// listing, skill-matched recommendations, applications and status
// transitions with realtime fan-out.
type OpportunityService interface {
	Create(ctx context.Context, creatorID uint, req dto.OpportunityCreateRequest) (dto.OpportunityResponse, error)
	List(ctx context.Context) ([]dto.OpportunityResponse, error)
	ListRecommended(ctx context.Context, userID uint) ([]dto.RecommendedOpportunityResponse, error)
	Apply(ctx context.Context, opportunityID, userID uint) (dto.OpportunityResponse, error)
	UpdateStatus(ctx context.Context, opportunityID, actorID uint, req dto.OpportunityStatusRequest) (dto.OpportunityResponse, error)
	ListApplications(ctx context.Context, userID uint) ([]dto.ApplicationResponse, error)
	UpdateApplication(ctx context.Context, opportunityID, userID uint, req dto.ApplicationUpdateRequest) (dto.ApplicationResponse, error)
}

type opportunityService struct {
	repo        repository.OpportunityRepository
	users       repository.UserRepository
	broadcaster Broadcaster
	mailer      Mailer
	activity    ActivityRecorder
	validator   *validator.Validate
	tracer      trace.Tracer
	logger      zerolog.Logger
}

// NewOpportunityService constructs the opportunity service.
func NewOpportunityService(repo repository.OpportunityRepository, users repository.UserRepository, broadcaster Broadcaster, mailer Mailer, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) OpportunityService {
	return &opportunityService{
		repo:        repo,
		users:       users,
		broadcaster: broadcaster,
		mailer:      mailer,
		activity:    activity,
		validator:   validate,
		tracer:      otel.Tracer("github.com/campusconnect/campus-api/internal/service"),
		logger:      logger.With().Str("component", "opportunity_service").Logger(),
	}
}

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (s *opportunityService) Create(ctx context.Context, creatorID uint, req dto.OpportunityCreateRequest) (dto.OpportunityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "opportunity.create", trace.WithAttributes(
		attribute.String("category", req.Category),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.OpportunityResponse{}, err
	}

	deadline, err := parseOptionalTime(req.Deadline)
	if err != nil {
		return dto.OpportunityResponse{}, fmt.Errorf("invalid deadline: %w", err)
	}

	company := strings.TrimSpace(req.Company)
	if company == "" {
		company = defaultCompany
	}
	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = defaultLocation
	}

	opportunity := models.Opportunity{
		Title:          strings.TrimSpace(req.Title),
		Company:        company,
		Description:    strings.TrimSpace(req.Description),
		Category:       req.Category,
		Location:       location,
		LogoURL:        req.LogoURL,
		SkillsRequired: datatypes.JSONSlice[string](req.SkillsRequired),
		Deadline:       deadline,
		Status:         models.OpportunityOpen,
		PostedAt:       time.Now().UTC(),
		CreatedBy:      &creatorID,
	}

	if err := s.repo.Create(ctx, &opportunity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().Err(err).Msg("failed to create opportunity")
		return dto.OpportunityResponse{}, err
	}

	s.activity.Record(ctx, creatorID, "opportunity:create", map[string]interface{}{
		"opportunity_id": opportunity.ID,
		"category":       opportunity.Category,
	}, "")

	return dto.NewOpportunityResponse(opportunity), nil
}

func (s *opportunityService) List(ctx context.Context) ([]dto.OpportunityResponse, error) {
	opportunities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewOpportunityResponseSlice(opportunities), nil
}

func (s *opportunityService) ListRecommended(ctx context.Context, userID uint) ([]dto.RecommendedOpportunityResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	opportunities, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	recommended := make([]dto.RecommendedOpportunityResponse, 0, len(opportunities))
	for _, opportunity := range opportunities {
		score := MatchScore(user.Skills, opportunity.SkillsRequired)
		observability.MatchComputations().Inc()
		recommended = append(recommended, dto.RecommendedOpportunityResponse{
			OpportunityResponse: dto.NewOpportunityResponse(opportunity),
			MatchPercentage:     score,
		})
	}

	// Stable keeps the posted_at ordering for equal scores.
	sort.SliceStable(recommended, func(i, j int) bool {
		return recommended[i].MatchPercentage > recommended[j].MatchPercentage
	})

	return recommended, nil
}

func (s *opportunityService) Apply(ctx context.Context, opportunityID, userID uint) (dto.OpportunityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "opportunity.apply", trace.WithAttributes(
		attribute.Int64("opportunity_id", int64(opportunityID)),
	))
	defer span.End()

	opportunity, err := s.repo.GetByID(ctx, opportunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OpportunityResponse{}, ErrOpportunityNotFound
		}
		return dto.OpportunityResponse{}, err
	}

	if opportunity.Status == models.OpportunityClosed {
		observability.Applications().WithLabelValues("closed").Inc()
		return dto.OpportunityResponse{}, ErrOpportunityClosed
	}

	added, err := s.repo.AddApplicant(ctx, opportunityID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().Err(err).Uint("opportunity_id", opportunityID).Uint("user_id", userID).Msg("failed to persist application")
		return dto.OpportunityResponse{}, err
	}
	if !added {
		observability.Applications().WithLabelValues("duplicate").Inc()
		return dto.OpportunityResponse{}, ErrAlreadyApplied
	}
	observability.Applications().WithLabelValues("accepted").Inc()

	s.activity.Record(ctx, userID, "opportunity:apply", map[string]interface{}{
		"opportunity_id": opportunityID,
		"title":          opportunity.Title,
	}, "")

	// Confirmation email is best-effort. The application already
	// persisted, so a delivery failure only gets logged.
	if user, err := s.users.GetByID(ctx, userID); err == nil {
		subject := fmt.Sprintf("Application received: %s", opportunity.Title)
		body := fmt.Sprintf("Hi %s,\n\nYour application for %q at %s has been received.\n\nCampusConnect", user.Name, opportunity.Title, opportunity.Company)
		if err := s.mailer.Send(user.Email, subject, body); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("application confirmation email failed")
		}
	}

	refreshed, err := s.repo.GetByID(ctx, opportunityID)
	if err != nil {
		return dto.OpportunityResponse{}, err
	}
	return dto.NewOpportunityResponse(refreshed), nil
}

func (s *opportunityService) UpdateStatus(ctx context.Context, opportunityID, actorID uint, req dto.OpportunityStatusRequest) (dto.OpportunityResponse, error) {
	ctx, span := s.tracer.Start(ctx, "opportunity.update_status", trace.WithAttributes(
		attribute.Int64("opportunity_id", int64(opportunityID)),
		attribute.String("status", req.Status),
	))
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		return dto.OpportunityResponse{}, err
	}

	interviewDate, err := parseOptionalTime(req.InterviewDate)
	if err != nil {
		return dto.OpportunityResponse{}, fmt.Errorf("invalid interview date: %w", err)
	}

	opportunity, err := s.repo.GetByID(ctx, opportunityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.OpportunityResponse{}, ErrOpportunityNotFound
		}
		return dto.OpportunityResponse{}, err
	}

	opportunity.Status = req.Status
	if interviewDate != nil {
		opportunity.InterviewDate = interviewDate
	}

	if err := s.repo.UpdateStatus(ctx, &opportunity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error().Err(err).Uint("opportunity_id", opportunityID).Msg("failed to update opportunity status")
		return dto.OpportunityResponse{}, err
	}

	// Audited against the caller, not the poster.
	s.activity.Record(ctx, actorID, "opportunity:status", map[string]interface{}{
		"opportunity_id": opportunityID,
		"status":         req.Status,
	}, "")

	if req.Status == models.OpportunityInterviewScheduled && req.CandidateEmail != "" {
		subject := fmt.Sprintf("Interview scheduled: %s", opportunity.Title)
		body := fmt.Sprintf("An interview for %q has been scheduled.", opportunity.Title)
		if opportunity.InterviewDate != nil {
			body = fmt.Sprintf("%s\nDate: %s", body, opportunity.InterviewDate.Format(time.RFC1123))
		}
		if err := s.mailer.Send(req.CandidateEmail, subject, body); err != nil {
			s.logger.Warn().Err(err).Uint("opportunity_id", opportunityID).Msg("interview email failed")
		}
	}

	// The broadcast goes out regardless of email delivery.
	message := NewRealtimeMessage()
	message.OpportunityID = opportunity.ID
	message.Title = opportunity.Title
	message.Status = opportunity.Status
	message.InterviewDate = opportunity.InterviewDate
	s.broadcaster.BroadcastAll(dto.EventInterviewStatus, message)

	return dto.NewOpportunityResponse(opportunity), nil
}

func (s *opportunityService) ListApplications(ctx context.Context, userID uint) ([]dto.ApplicationResponse, error) {
	applications, err := s.repo.ListApplicationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ApplicationResponse, 0, len(applications))
	for _, application := range applications {
		responses = append(responses, dto.NewApplicationResponse(application))
	}
	return responses, nil
}

func (s *opportunityService) UpdateApplication(ctx context.Context, opportunityID, userID uint, req dto.ApplicationUpdateRequest) (dto.ApplicationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ApplicationResponse{}, err
	}

	interviewDate, err := parseOptionalTime(req.InterviewDate)
	if err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("invalid interview date: %w", err)
	}

	application, err := s.repo.GetApplication(ctx, opportunityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ApplicationResponse{}, ErrApplicationNotFound
		}
		return dto.ApplicationResponse{}, err
	}

	application.DisplayStatus = req.DisplayStatus
	if interviewDate != nil {
		application.InterviewDate = interviewDate
	}

	if err := s.repo.UpdateApplication(ctx, &application); err != nil {
		return dto.ApplicationResponse{}, err
	}

	s.activity.Record(ctx, userID, "application:update", map[string]interface{}{
		"opportunity_id": opportunityID,
		"display_status": req.DisplayStatus,
	}, "")

	return dto.NewApplicationResponse(application), nil
}
