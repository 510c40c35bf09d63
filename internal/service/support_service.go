package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/dto"
)

// ErrSupportDuplicate indicates the same submission arrived again within
// the dedupe window.
var ErrSupportDuplicate = errors.New("duplicate support submission")

// ErrSupportDelivery indicates the submission could not be relayed to the
// support inbox.
var ErrSupportDelivery = errors.New("support delivery failed")

const supportDedupeTTL = 5 * time.Minute

// SupportService relays help-desk submissions to the support inbox.
type SupportService interface {
	Submit(ctx context.Context, req dto.SupportRequest) (dto.SupportResponse, error)
}

type supportService struct {
	cache     *redis.Client
	mailer    Mailer
	inbox     string
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewSupportService constructs the support service. cache may be nil,
// which disables duplicate suppression.
func NewSupportService(cache *redis.Client, mailer Mailer, inbox string, validate *validator.Validate, logger zerolog.Logger) SupportService {
	if inbox == "" {
		inbox = "support@campusconnect.local"
	}
	return &supportService{
		cache:     cache,
		mailer:    mailer,
		inbox:     inbox,
		validator: validate,
		logger:    logger.With().Str("component", "support_service").Logger(),
	}
}

func supportChecksum(email, issue string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email)) + "|" + strings.TrimSpace(issue)))
	return hex.EncodeToString(sum[:])
}

func (s *supportService) Submit(ctx context.Context, req dto.SupportRequest) (dto.SupportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SupportResponse{}, err
	}

	if s.cache != nil {
		key := fmt.Sprintf("support:dedupe:%s", supportChecksum(req.Email, req.Issue))
		ok, err := s.cache.SetNX(ctx, key, 1, supportDedupeTTL).Result()
		if err != nil {
			return dto.SupportResponse{}, err
		}
		if !ok {
			return dto.SupportResponse{}, ErrSupportDuplicate
		}
	}

	referenceID := uuid.New().String()
	subject := fmt.Sprintf("[%s] Support request %s", req.Category, referenceID)
	body := fmt.Sprintf("From: %s <%s>\nCategory: %s\n\n%s", strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), req.Category, strings.TrimSpace(req.Issue))

	if err := s.mailer.Send(s.inbox, subject, body); err != nil {
		s.logger.Error().Err(err).Str("reference_id", referenceID).Msg("failed to relay support submission")
		return dto.SupportResponse{}, fmt.Errorf("%w: %s", ErrSupportDelivery, err)
	}

	s.logger.Info().Str("reference_id", referenceID).Str("category", req.Category).Msg("support submission relayed")
	return dto.SupportResponse{ReferenceID: referenceID}, nil
}
