package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/hearthschool/hearth-go-api/internal/dto"
	"github.com/hearthschool/hearth-go-api/internal/service"
	"github.com/hearthschool/hearth-go-api/internal/utils"
)

// CurriculumHandler serves the curriculum catalog and authoring endpoints.
type CurriculumHandler struct {
	service service.CurriculumService
	logger  zerolog.Logger
}

// NewCurriculumHandler builds a curriculum handler instance.
func NewCurriculumHandler(service service.CurriculumService, logger zerolog.Logger) *CurriculumHandler {
	return &CurriculumHandler{
		service: service,
		logger:  logger.With().Str("component", "curriculum_handler").Logger(),
	}
}

// Register attaches the read-only catalog routes.
func (h *CurriculumHandler) Register(router fiber.Router) {
	router.Get("/grades", h.listGrades)
	router.Get("/subjects", h.listSubjects)
	router.Get("/courses", h.listCourses)
	router.Get("/courses/:id", h.courseDetail)
}

// RegisterAuthoring attaches the write routes. Callers should guard the group
// with a role check.
func (h *CurriculumHandler) RegisterAuthoring(router fiber.Router) {
	router.Post("/courses", h.createCourse)
	router.Post("/units", h.createUnit)
	router.Post("/lessons", h.createLesson)
	router.Post("/content-blocks", h.createContentBlock)
	router.Post("/activities", h.createActivity)
}

func (h *CurriculumHandler) listGrades(c *fiber.Ctx) error {
	grades, err := h.service.ListGrades(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}

func (h *CurriculumHandler) listSubjects(c *fiber.Ctx) error {
	subjects, err := h.service.ListSubjects(c.Context())
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "subjects retrieved", subjects)
}

func (h *CurriculumHandler) listCourses(c *fiber.Ctx) error {
	gradeID, err := parseQueryInt(c, "grade_id")
	if err != nil || gradeID <= 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "grade_id query parameter is required")
	}

	courses, err := h.service.ListCourses(c.Context(), uint(gradeID))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "courses retrieved", courses)
}

func (h *CurriculumHandler) courseDetail(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	course, err := h.service.CourseDetail(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CurriculumHandler) createCourse(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	course, err := h.service.CreateCourse(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CurriculumHandler) createUnit(c *fiber.Ctx) error {
	var payload dto.UnitCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	unit, err := h.service.CreateUnit(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "unit created", unit)
}

func (h *CurriculumHandler) createLesson(c *fiber.Ctx) error {
	var payload dto.LessonCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	lesson, err := h.service.CreateLesson(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "lesson created", lesson)
}

func (h *CurriculumHandler) createContentBlock(c *fiber.Ctx) error {
	var payload dto.ContentBlockCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	block, err := h.service.CreateContentBlock(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "content block created", block)
}

func (h *CurriculumHandler) createActivity(c *fiber.Ctx) error {
	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	activity, err := h.service.CreateActivity(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity created", activity)
}

func (h *CurriculumHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrGradeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "grade not found")
	case errors.Is(err, service.ErrCourseNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "course not found")
	case errors.Is(err, service.ErrLessonNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "lesson not found")
	case errors.Is(err, service.ErrInvalidActivityKey):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
