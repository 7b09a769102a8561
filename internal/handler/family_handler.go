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

// FamilyHandler exposes the parent-facing family endpoints.
type FamilyHandler struct {
	registration service.RegistrationService
	progress     service.ProgressService
	logger       zerolog.Logger
}

// NewFamilyHandler builds a family handler instance.
func NewFamilyHandler(registration service.RegistrationService, progress service.ProgressService, logger zerolog.Logger) *FamilyHandler {
	return &FamilyHandler{
		registration: registration,
		progress:     progress,
		logger:       logger.With().Str("component", "family_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *FamilyHandler) Register(router fiber.Router) {
	router.Get("", h.family)
	router.Get("/children", h.listChildren)
	router.Post("/children", h.addChild)
	router.Get("/progress", h.familyProgress)
}

func (h *FamilyHandler) family(c *fiber.Ctx) error {
	familyID := familyIDFromContext(c)
	if familyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "family context missing")
	}

	family, err := h.registration.Family(c.Context(), familyID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "family retrieved", family)
}

func (h *FamilyHandler) listChildren(c *fiber.Ctx) error {
	familyID := familyIDFromContext(c)
	if familyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "family context missing")
	}

	children, err := h.registration.ListChildren(c.Context(), familyID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "children retrieved", children)
}

func (h *FamilyHandler) addChild(c *fiber.Ctx) error {
	familyID := familyIDFromContext(c)
	if familyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "family context missing")
	}

	var payload dto.AddChildRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	child, err := h.registration.AddChild(c.Context(), familyID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "child enrolled", child)
}

func (h *FamilyHandler) familyProgress(c *fiber.Ctx) error {
	familyID := familyIDFromContext(c)
	if familyID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "family context missing")
	}

	overview, err := h.progress.FamilyProgress(c.Context(), familyID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "family progress retrieved", overview)
}

func (h *FamilyHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrFamilyNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "family not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
