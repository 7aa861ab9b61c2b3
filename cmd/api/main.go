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
	"github.com/rs/zerolog"

	"github.com/edudesk/admin-api/internal/config"
	"github.com/edudesk/admin-api/internal/database"
	"github.com/edudesk/admin-api/internal/events"
	"github.com/edudesk/admin-api/internal/handler"
	"github.com/edudesk/admin-api/internal/middleware"
	"github.com/edudesk/admin-api/internal/models"
	"github.com/edudesk/admin-api/internal/repository"
	"github.com/edudesk/admin-api/internal/router"
	"github.com/edudesk/admin-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Course{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var publisher *events.ActivityPublisher
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
		publisher = events.NewActivityPublisher(natsConn, events.DefaultActivitySubject, logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	reportRepo := repository.NewReportRepository(db)

	activityService := service.NewActivityService(activityRepo, publisher, logger)
	teacherService := service.NewTeacherService(userRepo, courseRepo, linkRepo, validate, activityService, logger)
	studentService := service.NewStudentService(userRepo, courseRepo, linkRepo, validate, activityService, logger)
	enrollmentService := service.NewEnrollmentService(userRepo, courseRepo, linkRepo, activityService, logger)
	courseService := service.NewCourseService(courseRepo, userRepo, linkRepo, validate, activityService, logger)
	reportService := service.NewReportService(reportRepo, redisClient, cfg.ReportCacheTTL, logger)
	settingsService := service.NewSettingsService(userRepo, activityService, validate, logger)
	seedService := service.NewSeedService(userRepo, courseRepo, linkRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSOrigins})
	router.Register(app, cfg, router.Dependencies{
		TeacherHandler:  handler.NewTeacherHandler(teacherService, logger),
		StudentHandler:  handler.NewStudentHandler(studentService, enrollmentService, logger),
		CourseHandler:   handler.NewCourseHandler(courseService, logger),
		ActivityHandler: handler.NewActivityHandler(activityService, logger),
		ReportHandler:   handler.NewReportHandler(reportService, logger),
		SettingsHandler: handler.NewSettingsHandler(settingsService, logger),
		SeedHandler:     handler.NewSeedHandler(seedService, logger),
		JWTMiddleware:   middleware.JWTProtected(cfg.JWTSecret),
	})

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
