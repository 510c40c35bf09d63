package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the portal API.
type Config struct {
	AppName         string
	AppEnv          string
	AppPort         string
	DatabaseURL     string
	RedisURL        string
	NATSURL         string
	JWTSecret       string
	TokenTTL        time.Duration
	AllowedOrigins  string
	RateLimitMax    int
	RateLimitWindow time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SupportInbox string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	PhotoMaxSizeMB      int

	RealtimeChannel string

	OpenAIAPIKey   string
	AssistantModel string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CampusConnect API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "5000")
	v.SetDefault("token.ttl", "168h")
	v.SetDefault("allowed.origins", "http://localhost:3000")
	v.SetDefault("rate.limit_max", 300)
	v.SetDefault("rate.limit_window", "15m")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.from", "no-reply@campusconnect.local")
	v.SetDefault("cloudinary.folder", "campusconnect/profile")
	v.SetDefault("photo.max_size_mb", 5)
	v.SetDefault("realtime.channel", "campusconnect")
	v.SetDefault("assistant.model", "gpt-4o-mini")

	ttl, err := time.ParseDuration(v.GetString("token.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("rate.limit_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid rate limit window: %w", err)
	}

	cfg := Config{
		AppName:         v.GetString("app.name"),
		AppEnv:          v.GetString("app.env"),
		AppPort:         v.GetString("app.port"),
		DatabaseURL:     v.GetString("database.url"),
		RedisURL:        v.GetString("redis.url"),
		NATSURL:         v.GetString("nats.url"),
		JWTSecret:       v.GetString("jwt.secret"),
		TokenTTL:        ttl,
		AllowedOrigins:  v.GetString("allowed.origins"),
		RateLimitMax:    v.GetInt("rate.limit_max"),
		RateLimitWindow: window,

		SMTPHost:     v.GetString("smtp.host"),
		SMTPPort:     v.GetInt("smtp.port"),
		SMTPUser:     v.GetString("smtp.user"),
		SMTPPass:     v.GetString("smtp.pass"),
		SMTPFrom:     v.GetString("smtp.from"),
		SupportInbox: v.GetString("support.inbox"),

		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
		PhotoMaxSizeMB:      v.GetInt("photo.max_size_mb"),

		RealtimeChannel: v.GetString("realtime.channel"),

		OpenAIAPIKey:   v.GetString("openai_api_key"),
		AssistantModel: v.GetString("assistant.model"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 300
	}

	if cfg.PhotoMaxSizeMB <= 0 {
		cfg.PhotoMaxSizeMB = 5
	}

	return cfg, nil
}
