package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusconnect/campus-api/internal/config"
	"github.com/campusconnect/campus-api/internal/handler"
	"github.com/campusconnect/campus-api/internal/middleware"
	"github.com/campusconnect/campus-api/internal/models"
	"github.com/campusconnect/campus-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	OpportunityHandler *handler.OpportunityHandler
	ClubHandler        *handler.ClubHandler
	EventHandler       *handler.EventHandler
	RealtimeHandler    *handler.RealtimeHandler
	SupportHandler     *handler.SupportHandler
	AssistantHandler   *handler.AssistantHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Use(middleware.RateLimit("api", cfg.RateLimitMax, cfg.RateLimitWindow))
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		deps.AuthHandler.Register(api.Group("/auth"))
	}

	if deps.UserHandler != nil {
		deps.UserHandler.Register(api.Group("/users", jwtMiddleware))
	}

	if deps.OpportunityHandler != nil {
		deps.OpportunityHandler.RegisterPublic(api.Group("/opportunities"))

		opportunities := api.Group("/opportunities", jwtMiddleware)
		deps.OpportunityHandler.RegisterProtected(opportunities)
		opportunities.Patch("/:id/status",
			middleware.RequireRole(models.RoleRecruiter),
			deps.OpportunityHandler.UpdateStatus)
		opportunities.Post("/seed",
			middleware.RequireRole(models.RoleAdmin),
			deps.OpportunityHandler.Seed)
	}

	if deps.ClubHandler != nil {
		deps.ClubHandler.RegisterPublic(api.Group("/clubs"))
		deps.ClubHandler.RegisterProtected(api.Group("/clubs", jwtMiddleware))
	}

	if deps.EventHandler != nil {
		deps.EventHandler.RegisterPublic(api.Group("/events"))
		deps.EventHandler.RegisterProtected(api.Group("/events", jwtMiddleware))
	}

	if deps.RealtimeHandler != nil {
		realtime := api.Group("/realtime", jwtMiddleware)
		deps.RealtimeHandler.Register(realtime)
		realtime.Post("/announcement",
			middleware.RequireRole(models.RoleAdmin),
			deps.RealtimeHandler.Announce)
		realtime.Post("/notify-user",
			middleware.RequireRole(models.RoleAdmin),
			deps.RealtimeHandler.NotifyUser)
	}

	if deps.SupportHandler != nil {
		deps.SupportHandler.Register(api.Group("/support"))
	}

	if deps.AssistantHandler != nil {
		deps.AssistantHandler.Register(api.Group("/assistant", jwtMiddleware))
	}
}
