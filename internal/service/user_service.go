package service

import (
	"bytes"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/repository"
)

var (
	// ErrUserNotFound is returned when the account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned when the current password check fails.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrInvalidOTP covers expired, mismatched and never-issued codes.
	ErrInvalidOTP = errors.New("invalid or expired verification code")
	// ErrOTPUnavailable is returned when no OTP store is configured.
	ErrOTPUnavailable = errors.New("phone verification is not available")
	// ErrPhotoTooLarge indicates the upload exceeded the configured limit.
	ErrPhotoTooLarge = errors.New("photo exceeds maximum allowed size")
	// ErrPhotoTypeNotAllowed indicates the upload is not an image.
	ErrPhotoTypeNotAllowed = errors.New("photo must be an image")
)

const otpTTL = 5 * time.Minute

// PhotoStorage abstracts the destination for profile photo uploads.
type PhotoStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// UserService manages profiles, settings, credentials and phone
// verification for the authenticated account.
type UserService interface {
	GetProfile(ctx context.Context, userID uint) (dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (dto.ProfileResponse, error)
	UpdateSkills(ctx context.Context, userID uint, req dto.UpdateSkillsRequest) (dto.ProfileResponse, error)
	UpdateSettings(ctx context.Context, userID uint, req dto.UpdateSettingsRequest) (dto.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userID uint) error
	VerifyEmail(ctx context.Context, userID uint) (dto.ProfileResponse, error)
	SendPhoneOTP(ctx context.Context, userID uint, req dto.SendPhoneOTPRequest) error
	VerifyPhoneOTP(ctx context.Context, userID uint, req dto.VerifyPhoneOTPRequest) (dto.ProfileResponse, error)
	UploadPhoto(ctx context.Context, userID uint, file *multipart.FileHeader) (dto.PhotoUploadResponse, error)
}

type userService struct {
	users        repository.UserRepository
	redis        *redis.Client
	storage      PhotoStorage
	activity     ActivityRecorder
	validator    *validator.Validate
	maxPhotoSize int64
	logger       zerolog.Logger
}

// NewUserService constructs the user service. redis and storage may be
// nil, in which case phone verification and photo upload are disabled.
func NewUserService(users repository.UserRepository, redisClient *redis.Client, storage PhotoStorage, activity ActivityRecorder, validator *validator.Validate, maxPhotoSizeMB int, logger zerolog.Logger) UserService {
	if maxPhotoSizeMB <= 0 {
		maxPhotoSizeMB = 5
	}
	return &userService{
		users:        users,
		redis:        redisClient,
		storage:      storage,
		activity:     activity,
		validator:    validator,
		maxPhotoSize: int64(maxPhotoSizeMB) * 1024 * 1024,
		logger:       logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) getUser(ctx context.Context, userID uint) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (dto.ProfileResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	return dto.NewProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, req dto.UpdateProfileRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			taken, err := s.users.EmailTaken(ctx, email, userID)
			if err != nil {
				return dto.ProfileResponse{}, err
			}
			if taken {
				return dto.ProfileResponse{}, ErrEmailTaken
			}
			user.Email = email
			user.EmailVerified = false
		}
	}
	if req.Bio != nil {
		user.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != user.Phone {
			user.Phone = phone
			user.PhoneVerified = false
		}
	}
	if req.PhotoURL != nil {
		user.PhotoURL = *req.PhotoURL
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.activity.Record(ctx, userID, "profile:update", nil, "")
	return dto.NewProfileResponse(user), nil
}

func (s *userService) UpdateSkills(ctx context.Context, userID uint, req dto.UpdateSkillsRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	skills := make([]string, 0, len(req.Skills))
	seen := make(map[string]struct{}, len(req.Skills))
	for _, skill := range req.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		if _, dup := seen[skill]; dup {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
	}
	user.Skills = datatypes.JSONSlice[string](skills)

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.activity.Record(ctx, userID, "profile:skills", map[string]interface{}{"count": len(skills)}, "")
	return dto.NewProfileResponse(user), nil
}

func (s *userService) UpdateSettings(ctx context.Context, userID uint, req dto.UpdateSettingsRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	settings := &user.Settings
	if req.EmailNotifications != nil {
		settings.EmailNotifications = *req.EmailNotifications
	}
	if req.SMSNotifications != nil {
		settings.SMSNotifications = *req.SMSNotifications
	}
	if req.PushNotifications != nil {
		settings.PushNotifications = *req.PushNotifications
	}
	if req.WeeklyDigest != nil {
		settings.WeeklyDigest = *req.WeeklyDigest
	}
	if req.ApplicationAlerts != nil {
		settings.ApplicationAlerts = *req.ApplicationAlerts
	}
	if req.ProfileVisibility != nil {
		settings.ProfileVisibility = *req.ProfileVisibility
	}
	if req.ShowProfilePublic != nil {
		settings.ShowProfilePublic = *req.ShowProfilePublic
	}
	if req.SearchableByRecruiters != nil {
		settings.SearchableByRecruiters = *req.SearchableByRecruiters
	}
	if req.TwoFactor != nil {
		settings.TwoFactor = *req.TwoFactor
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.Language != nil {
		settings.Language = *req.Language
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.activity.Record(ctx, userID, "settings:update", nil, "")
	return dto.NewProfileResponse(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID uint, req dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Current)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)

	if err := s.users.Update(ctx, &user); err != nil {
		return err
	}

	s.activity.Record(ctx, userID, "account:password_change", nil, "")
	return nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID uint) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.logger.Info().Uint("user_id", userID).Msg("account deleted")
	return nil
}

func (s *userService) VerifyEmail(ctx context.Context, userID uint) (dto.ProfileResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	if !user.EmailVerified {
		user.EmailVerified = true
		if err := s.users.Update(ctx, &user); err != nil {
			return dto.ProfileResponse{}, err
		}
		s.activity.Record(ctx, userID, "account:email_verified", nil, "")
	}
	return dto.NewProfileResponse(user), nil
}

func otpKey(userID uint) string {
	return fmt.Sprintf("otp:phone:%d", userID)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func (s *userService) SendPhoneOTP(ctx context.Context, userID uint, req dto.SendPhoneOTPRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if s.redis == nil {
		return ErrOTPUnavailable
	}

	if _, err := s.getUser(ctx, userID); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}

	phone := strings.TrimSpace(req.Phone)
	payload := fmt.Sprintf("%s:%s", phone, code)
	if err := s.redis.Set(ctx, otpKey(userID), payload, otpTTL).Err(); err != nil {
		return err
	}

	// No SMS gateway is wired up. The code lands in the logs so that
	// operators can relay it manually in development and staging.
	s.logger.Info().Uint("user_id", userID).Str("phone", phone).Str("otp", code).Msg("phone verification code issued")
	return nil
}

func (s *userService) VerifyPhoneOTP(ctx context.Context, userID uint, req dto.VerifyPhoneOTPRequest) (dto.ProfileResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ProfileResponse{}, err
	}
	if s.redis == nil {
		return dto.ProfileResponse{}, ErrOTPUnavailable
	}

	stored, err := s.redis.Get(ctx, otpKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return dto.ProfileResponse{}, ErrInvalidOTP
		}
		return dto.ProfileResponse{}, err
	}

	phone := strings.TrimSpace(req.Phone)
	if stored != fmt.Sprintf("%s:%s", phone, req.OTP) {
		return dto.ProfileResponse{}, ErrInvalidOTP
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	user.Phone = phone
	user.PhoneVerified = true
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.ProfileResponse{}, err
	}

	// Codes are single-use.
	s.redis.Del(ctx, otpKey(userID))

	s.activity.Record(ctx, userID, "account:phone_verified", nil, "")
	return dto.NewProfileResponse(user), nil
}

func (s *userService) UploadPhoto(ctx context.Context, userID uint, file *multipart.FileHeader) (dto.PhotoUploadResponse, error) {
	if s.storage == nil {
		return dto.PhotoUploadResponse{}, errors.New("photo storage is not configured")
	}
	if file == nil {
		return dto.PhotoUploadResponse{}, errors.New("file is required")
	}
	if file.Size > s.maxPhotoSize {
		return dto.PhotoUploadResponse{}, ErrPhotoTooLarge
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return dto.PhotoUploadResponse{}, err
	}

	handle, err := file.Open()
	if err != nil {
		return dto.PhotoUploadResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxPhotoSize+1)); err != nil {
		return dto.PhotoUploadResponse{}, err
	}
	if int64(buf.Len()) > s.maxPhotoSize {
		return dto.PhotoUploadResponse{}, ErrPhotoTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	if !mimetype.EqualsAny(mime.String(), "image/jpeg", "image/png", "image/webp") {
		return dto.PhotoUploadResponse{}, ErrPhotoTypeNotAllowed
	}

	name := fmt.Sprintf("user-%d-%d", userID, time.Now().Unix())
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Msg("photo upload failed")
		return dto.PhotoUploadResponse{}, err
	}

	user.PhotoURL = url
	if err := s.users.Update(ctx, &user); err != nil {
		return dto.PhotoUploadResponse{}, err
	}

	s.activity.Record(ctx, userID, "profile:photo_upload", nil, "")
	return dto.PhotoUploadResponse{PhotoURL: url}, nil
}
