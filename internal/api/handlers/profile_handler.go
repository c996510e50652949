package handlers

import (
	"paynote/internal/dto"
	"paynote/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *zap.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

// Get godoc
// @Summary Current user profile
// @Description Returns the profile, creating it on first access.
// @Tags profile
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/profile [get]
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.profiles.EnsureProfile(c.Context(), session)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to load profile")
	}

	return c.JSON(dto.NewUserResponse(user))
}

// Update godoc
// @Summary Update the issuer details printed on invoices
// @Tags profile
// @Accept json
// @Produce json
// @Param request body dto.UpdateProfileRequest true "Issuer details"
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/profile [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.profiles.UpdateIssuer(c.Context(), session, &req)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to update profile")
	}

	return c.JSON(dto.NewUserResponse(user))
}
