package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/grading"
	"github.com/hearthschool/hearth-go-api/internal/models"
	"github.com/hearthschool/hearth-go-api/internal/service"
	"github.com/hearthschool/hearth-go-api/internal/utils"
)

// LessonHandler serves lesson delivery, progress and answer submission.
type LessonHandler struct {
	curriculum service.CurriculumService
	progress   service.LessonProgressService
	responses  service.ActivityResponseService
	logger     zerolog.Logger
}

// NewLessonHandler builds a lesson handler instance.
func NewLessonHandler(curriculum service.CurriculumService, progress service.LessonProgressService, responses service.ActivityResponseService, logger zerolog.Logger) *LessonHandler {
	return &LessonHandler{
		curriculum: curriculum,
		progress:   progress,
		responses:  responses,
		logger:     logger.With().Str("component", "lesson_handler").Logger(),
	}
}

// Register attaches the lesson routes to the provided router group.
func (h *LessonHandler) Register(router fiber.Router) {
	router.Get("/lessons/:id", h.lessonDetail)
	router.Post("/lessons/:id/start", h.startLesson)
	router.Post("/lessons/:id/complete", h.completeLesson)
	router.Post("/activities/:id/submit", h.submitAnswer)
}

func (h *LessonHandler) lessonDetail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentView := userRoleFromContext(c) == models.RoleStudent
	lesson, err := h.curriculum.LessonDetail(c.Context(), id, studentView)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "lesson retrieved", lesson)
}

func (h *LessonHandler) startLesson(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "student context missing")
	}

	progress, err := h.progress.Start(c.Context(), studentID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "lesson started", progress)
}

func (h *LessonHandler) completeLesson(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "student context missing")
	}

	result, err := h.progress.Complete(c.Context(), studentID, id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "lesson completed", result)
}

func (h *LessonHandler) submitAnswer(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	studentID := userIDFromContext(c)
	if studentID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "student context missing")
	}

	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.responses.Submit(c.Context(), studentID, id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer graded", result)
}

func (h *LessonHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
	case errors.Is(err, service.ErrActivityNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "activity not found")
	case errors.Is(err, grading.ErrEmptyAnswer):
		return utils.SendError(c, fiber.StatusBadRequest, "answer is empty")
	case errors.Is(err, service.ErrInvalidAnswer):
		return utils.SendError(c, fiber.StatusBadRequest, "answer has the wrong shape")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
