package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hearthschool/hearth-go-api/internal/service"
	"github.com/hearthschool/hearth-go-api/internal/utils"
)

// AchievementHandler serves the badge catalog and per-student awards.
type AchievementHandler struct {
	service service.AchievementService
	logger  zerolog.Logger
}

// NewAchievementHandler builds an achievement handler instance.
func NewAchievementHandler(service service.AchievementService, logger zerolog.Logger) *AchievementHandler {
	return &AchievementHandler{
		service: service,
		logger:  logger.With().Str("component", "achievement_handler").Logger(),
	}
}

// Register attaches the catalog route.
func (h *AchievementHandler) Register(router fiber.Router) {
	router.Get("", h.catalog)
}

// RegisterStudent attaches the per-student awards route onto the students group.
func (h *AchievementHandler) RegisterStudent(router fiber.Router) {
	router.Get("/:id/achievements", h.earned)
}

func (h *AchievementHandler) catalog(c *fiber.Ctx) error {
	achievements, err := h.service.ListCatalog(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "achievements retrieved", achievements)
}

func (h *AchievementHandler) earned(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if !canViewStudent(c, studentID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own achievements")
	}

	earned, err := h.service.ListEarned(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student achievements retrieved", earned)
}

func (h *AchievementHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
