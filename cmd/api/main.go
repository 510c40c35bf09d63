package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/campusconnect/campus-api/internal/config"
	"github.com/campusconnect/campus-api/internal/database"
	"github.com/campusconnect/campus-api/internal/handler"
	"github.com/campusconnect/campus-api/internal/middleware"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/observability"
	"github.com/campusconnect/campus-api/internal/repository"
	"github.com/campusconnect/campus-api/internal/router"
	"github.com/campusconnect/campus-api/internal/service"
	"github.com/campusconnect/campus-api/pkg/ai"
	cloud "github.com/campusconnect/campus-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	observability.RegisterMetrics()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Opportunity{},
		&models.Application{},
		&models.ActivityLog{},
		&models.Club{},
		&models.Event{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS are optional: without them OTP issuance, support
	// dedupe and cross-node fan-out degrade, the rest keeps working.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis not configured, otp and dedupe features disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats not configured, running single-node realtime")
	}

	var storage service.PhotoStorage
	if cfg.CloudinaryCloudName != "" {
		uploader, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		storage = uploader
	} else {
		logger.Warn().Msg("cloudinary not configured, photo upload disabled")
	}

	var advisor service.Advisor
	if cfg.OpenAIAPIKey != "" {
		advisor, err = ai.NewOpenAIAdvisor(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.AssistantModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai advisor: %v", err)
		}
	} else {
		logger.Warn().Msg("openai not configured, assistant runs scripted replies only")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	mailer := service.NewMailer(&cfg, logger)

	userRepo := repository.NewUserRepository(db)
	opportunityRepo := repository.NewOpportunityRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	clubRepo := repository.NewClubRepository(db)
	eventRepo := repository.NewEventRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	authService := service.NewAuthService(userRepo, activityService, mailer, validate, &cfg, logger)
	userService := service.NewUserService(userRepo, redisClient, storage, activityService, validate, cfg.PhotoMaxSizeMB, logger)
	realtimeService := service.NewRealtimeService(redisClient, cfg.RealtimeChannel, natsConn, validate, logger)
	opportunityService := service.NewOpportunityService(opportunityRepo, userRepo, realtimeService, mailer, activityService, validate, logger)
	clubService := service.NewClubService(clubRepo, activityService, validate, logger)
	eventService := service.NewEventService(eventRepo, activityService, validate, logger)
	supportService := service.NewSupportService(redisClient, mailer, cfg.SupportInbox, validate, logger)
	seedService := service.NewSeedService(opportunityRepo, logger)
	assistantService := service.NewAssistantService(advisor, validate, logger)

	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL, logger)
	userHandler := handler.NewUserHandler(userService, activityService, logger)
	opportunityHandler := handler.NewOpportunityHandler(opportunityService, seedService, logger)
	clubHandler := handler.NewClubHandler(clubService, logger)
	eventHandler := handler.NewEventHandler(eventService, logger)
	realtimeHandler := handler.NewRealtimeHandler(realtimeService, logger)
	supportHandler := handler.NewSupportHandler(supportService, logger)
	assistantHandler := handler.NewAssistantHandler(assistantService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:         &logger,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		OpportunityHandler: opportunityHandler,
		ClubHandler:        clubHandler,
		EventHandler:       eventHandler,
		RealtimeHandler:    realtimeHandler,
		SupportHandler:     supportHandler,
		AssistantHandler:   assistantHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	relayCtx, cancelRelay := context.WithCancel(context.Background())
	defer cancelRelay()
	realtimeService.Start(relayCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
