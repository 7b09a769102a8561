package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/service"
	"github.com/hearthschool/hearth-go-api/internal/utils"
)

// ProgressHandler serves per-student dashboards and schedules.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler builds a progress handler instance.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Get("/:id/stats", h.stats)
	router.Get("/:id/today", h.today)
	router.Get("/:id/week", h.week)
}

func (h *ProgressHandler) stats(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if !canViewStudent(c, studentID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own progress")
	}

	stats, err := h.service.StudentStats(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "student stats retrieved", stats)
}

func (h *ProgressHandler) today(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if !canViewStudent(c, studentID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own progress")
	}

	today, err := h.service.TodaysLessons(c.Context(), studentID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "today's lessons retrieved", today)
}

func (h *ProgressHandler) week(c *fiber.Ctx) error {
	studentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if !canViewStudent(c, studentID) {
		return utils.SendError(c, fiber.StatusForbidden, "students may only view their own progress")
	}

	var weekOverride *int
	if week, err := parseQueryInt(c, "week"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid week")
	} else if week > 0 {
		weekOverride = &week
	}

	schedule, err := h.service.WeeklySchedule(c.Context(), studentID, weekOverride)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "weekly schedule retrieved", schedule)
}

// canViewStudent limits students to their own records. Parents may read any
// student id; the service scopes lookups to records that exist.
func canViewStudent(c *fiber.Ctx, studentID uint) bool {
	if userRoleFromContext(c) != models.RoleStudent {
		return true
	}
	return userIDFromContext(c) == studentID
}

func (h *ProgressHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
