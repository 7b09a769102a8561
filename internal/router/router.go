package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hearthschool/hearth-go-api/internal/config"
	"github.com/hearthschool/hearth-go-api/internal/handler"
	"github.com/hearthschool/hearth-go-api/internal/middleware"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	FamilyHandler      *handler.FamilyHandler
	CurriculumHandler  *handler.CurriculumHandler
	LessonHandler      *handler.LessonHandler
	ProgressHandler    *handler.ProgressHandler
	AchievementHandler *handler.AchievementHandler
	SeedHandler        *handler.SeedHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 10, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	if deps.SeedHandler != nil {
		seed := api.Group("/seed")
		deps.SeedHandler.Register(seed)
	}

	if deps.FamilyHandler != nil {
		family := api.Group("/family", jwtMiddleware, middleware.RequireRole(models.RoleParent))
		deps.FamilyHandler.Register(family)
	}

	if deps.CurriculumHandler != nil {
		curriculum := api.Group("/curriculum", jwtMiddleware)
		deps.CurriculumHandler.Register(curriculum)

		authoring := curriculum.Group("", middleware.RequireRole(models.RoleParent))
		deps.CurriculumHandler.RegisterAuthoring(authoring)
	}

	if deps.LessonHandler != nil {
		lessons := api.Group("", jwtMiddleware)
		deps.LessonHandler.Register(lessons)
	}

	if deps.ProgressHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.ProgressHandler.Register(students)

		if deps.AchievementHandler != nil {
			deps.AchievementHandler.RegisterStudent(students)
		}
	}

	if deps.AchievementHandler != nil {
		achievements := api.Group("/achievements", jwtMiddleware)
		deps.AchievementHandler.Register(achievements)
	}
}
