package handlers

import (
	"errors"

	"paynote/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError maps service errors to status codes. Upstream and extraction
// failures keep their message; persistence and unknown errors get fallback.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	status := fiber.StatusInternalServerError
	message := fallback

	switch {
	case errors.Is(err, models.ErrValidation):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, models.ErrNotFound):
		status, message = fiber.StatusNotFound, err.Error()
	case errors.Is(err, models.ErrUserExists):
		status, message = fiber.StatusConflict, "User already exists"
	case errors.Is(err, models.ErrRateLimited),
		errors.Is(err, models.ErrUpstreamUnavailable),
		errors.Is(err, models.ErrUpstreamFormat),
		errors.Is(err, models.ErrExtractionFormat):
		message = err.Error()
	}

	if status >= fiber.StatusInternalServerError {
		logger.Error(fallback, zap.Error(err), zap.String("path", c.Path()))
	} else {
		logger.Debug("Request rejected", zap.Error(err), zap.Int("status", status))
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func sessionFrom(c *fiber.Ctx) (models.Session, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return models.Session{}, models.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return models.Session{}, models.ErrUnauthorized
	}

	email, _ := c.Locals("email").(string)
	fullName, _ := c.Locals("fullName").(string)

	return models.Session{
		OwnerID:  userID,
		Email:    email,
		FullName: fullName,
	}, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized",
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Corps de requête invalide",
	})
}
