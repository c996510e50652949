package handlers

import (
	"strings"

	"paynote/internal/dto"
	"paynote/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler serves the password accounts. Tokens from an external identity
// provider skip it entirely and go straight to /api/v1.
type AuthHandler struct {
	accounts *service.AuthService
	logger   *zap.Logger
}

func NewAuthHandler(accounts *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// Register godoc
// @Summary Create a Paynote account
// @Description Creates a free-plan account (5 invoices) and returns access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Email, password, full name"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /user/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email, mot de passe et nom complet requis",
		})
	}

	resp, err := h.accounts.Register(c.Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err, "Création du compte impossible")
	}

	h.logger.Info("Account registered", zap.String("user_id", resp.User.ID))

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// @Summary Sign in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email and password"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /user/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email et mot de passe requis",
		})
	}

	resp, err := h.accounts.Login(c.Context(), &req)
	if err != nil {
		return respondError(c, h.logger, err, "Connexion impossible")
	}

	return c.JSON(resp)
}

// RefreshToken godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /user/auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if req.RefreshToken == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "refresh_token requis",
		})
	}

	resp, err := h.accounts.RefreshToken(c.Context(), req.RefreshToken)
	if err != nil {
		return respondError(c, h.logger, err, "Renouvellement du jeton impossible")
	}

	return c.JSON(resp)
}
