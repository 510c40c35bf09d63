package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/campusconnect/campus-api/internal/config"
	"github.com/campusconnect/campus-api/internal/dto"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/repository"
)

var (
	// ErrEmailTaken is returned when registration hits an existing account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so the response never reveals which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Claims is the JWT payload issued at login and parsed by the auth
// middleware on every authenticated request.
type Claims struct {
	UserID uint   `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token issuance.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest, ipAddress string) (dto.AuthResponse, error)
	IssueToken(user models.User) (string, error)
}

type authService struct {
	users     repository.UserRepository
	activity  ActivityRecorder
	mailer    Mailer
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, activity ActivityRecorder, mailer Mailer, validator *validator.Validate, cfg *config.Config, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		activity:  activity,
		mailer:    mailer,
		validator: validator,
		secret:    []byte(cfg.JWTSecret),
		tokenTTL:  cfg.TokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

// allowedSignupRoles is the set of roles an account can self-select at
// registration. Anything else, including "admin", falls back to student.
var allowedSignupRoles = map[string]struct{}{
	models.RoleStudent:         {},
	models.RoleRecruiter:       {},
	models.RoleClubCoordinator: {},
}

func normalizeSignupRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	if _, ok := allowedSignupRoles[role]; ok {
		return role
	}
	return models.RoleStudent
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	taken, err := s.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if taken {
		return dto.AuthResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: string(hash),
		Skills:   datatypes.JSONSlice[string]{},
		Role:     normalizeSignupRole(req.Role),
		Settings: models.DefaultUserSettings(),
	}
	if err := s.users.Create(ctx, &user); err != nil {
		// Unique index on email closes the race between EmailTaken and
		// Create under concurrent registrations.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.AuthResponse{}, ErrEmailTaken
		}
		s.logger.Error().Err(err).Msg("failed to create user")
		return dto.AuthResponse{}, err
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.activity.Record(ctx, user.ID, "account:register", map[string]interface{}{"role": user.Role}, "")
	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	if s.mailer != nil {
		body := "Welcome to CampusConnect, " + user.Name + "! Add your skills to start getting matched with opportunities."
		if err := s.mailer.Send(user.Email, "Welcome to CampusConnect", body); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", user.ID).Msg("welcome email failed")
		}
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserSummary(user)}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest, ipAddress string) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.activity.Record(ctx, user.ID, "account:login", nil, ipAddress)

	return dto.AuthResponse{Token: token, User: dto.NewUserSummary(user)}, nil
}

func (s *authService) IssueToken(user models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken validates a signed token and returns its claims.
func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
