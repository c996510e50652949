package handlers

import (
	"strings"

	"paynote/internal/dto"
	"paynote/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EmailHandler struct {
	delivery *service.DeliveryService
	logger   *zap.Logger
}

func NewEmailHandler(delivery *service.DeliveryService, logger *zap.Logger) *EmailHandler {
	return &EmailHandler{
		delivery: delivery,
		logger:   logger,
	}
}

// SendEmail godoc
// @Summary Email an invoice download link
// @Tags public
// @Accept json
// @Produce json
// @Param request body dto.SendEmailRequest true "Recipient and invoice link"
// @Success 200 {object} dto.SendEmailResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /send-email [post]
func (h *EmailHandler) SendEmail(c *fiber.Ctx) error {
	var req dto.SendEmailRequest
	if err := c.BodyParser(&req); err != nil || !complete(req.To, req.InvoiceNumber, req.PDFURL, req.ClientName) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Données manquantes",
		})
	}

	receipt, err := h.delivery.SendLink(c.Context(), req.To, req.InvoiceNumber, req.PDFURL, req.ClientName)
	if err != nil {
		return respondError(c, h.logger, err, "Erreur lors de l'envoi de l'email")
	}

	var data any = receipt
	if receipt.Raw != nil {
		data = receipt.Raw
	}

	return c.JSON(dto.SendEmailResponse{
		Success: true,
		Message: "Email envoyé avec succès",
		Data:    data,
	})
}

func complete(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
