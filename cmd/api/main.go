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

	"github.com/hearthschool/hearth-go-api/internal/config"
	"github.com/hearthschool/hearth-go-api/internal/database"
	"github.com/hearthschool/hearth-go-api/internal/handler"
	"github.com/hearthschool/hearth-go-api/internal/middleware"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/repository"
	"github.com/hearthschool/hearth-go-api/internal/router"
	"github.com/hearthschool/hearth-go-api/internal/service"
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

	if err := db.AutoMigrate(
		&models.Family{},
		&models.User{},
		&models.StudentProfile{},
		&models.Grade{},
		&models.Subject{},
		&models.Course{},
		&models.Unit{},
		&models.Lesson{},
		&models.LessonContentBlock{},
		&models.Activity{},
		&models.LessonProgress{},
		&models.ActivityResponse{},
		&models.Achievement{},
		&models.StudentAchievement{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	familyRepo := repository.NewFamilyRepository(db)
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewStudentProfileRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	achievementRepo := repository.NewAchievementRepository(db)

	events := service.NewEventPublisher(natsConn, logger)

	registrationService := service.NewRegistrationService(familyRepo, userRepo, profileRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	curriculumService := service.NewCurriculumService(curriculumRepo, lessonRepo, activityRepo, validate, logger)
	achievementService := service.NewAchievementService(achievementRepo, logger)
	responseService := service.NewActivityResponseService(activityRepo, progressRepo, profileRepo, redisClient, events, logger)
	lessonProgressService := service.NewLessonProgressService(lessonRepo, progressRepo, profileRepo, achievementService, redisClient, events, logger)
	progressService := service.NewProgressService(userRepo, familyRepo, profileRepo, curriculumRepo, lessonRepo, progressRepo, redisClient, cfg.DashboardCacheTTL, logger)
	seedService := service.NewSeedService(curriculumRepo, achievementRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	authHandler := handler.NewAuthHandler(registrationService, logger)
	familyHandler := handler.NewFamilyHandler(registrationService, progressService, logger)
	curriculumHandler := handler.NewCurriculumHandler(curriculumService, logger)
	lessonHandler := handler.NewLessonHandler(curriculumService, lessonProgressService, responseService, logger)
	progressHandler := handler.NewProgressHandler(progressService, logger)
	achievementHandler := handler.NewAchievementHandler(achievementService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        authHandler,
		FamilyHandler:      familyHandler,
		CurriculumHandler:  curriculumHandler,
		LessonHandler:      lessonHandler,
		ProgressHandler:    progressHandler,
		AchievementHandler: achievementHandler,
		SeedHandler:        seedHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
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
