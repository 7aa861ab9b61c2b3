package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/edudesk/admin-api/internal/config"
	"github.com/edudesk/admin-api/internal/handler"
	"github.com/edudesk/admin-api/internal/middleware"
	"github.com/edudesk/admin-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TeacherHandler  *handler.TeacherHandler
	StudentHandler  *handler.StudentHandler
	CourseHandler   *handler.CourseHandler
	ActivityHandler *handler.ActivityHandler
	ReportHandler   *handler.ReportHandler
	SettingsHandler *handler.SettingsHandler
	SeedHandler     *handler.SeedHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	admin := app.Group("/api/admin", jwtMiddleware, middleware.RequireRole("admin"))

	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterOverview(admin.Group("/overview"))
		deps.ReportHandler.RegisterReports(admin.Group("/reports"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(admin.Group("/activity"))
	}
	if deps.TeacherHandler != nil {
		deps.TeacherHandler.Register(admin.Group("/teachers"))
	}
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(admin.Group("/students"))
	}
	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(admin.Group("/courses"))
	}
	if deps.SettingsHandler != nil {
		deps.SettingsHandler.Register(admin.Group("/settings"))
	}
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(admin.Group("/seed", middleware.RateLimit("seed", 3, time.Minute)))
	}
}
