package handlers

import (
	"fmt"
	"io"
	"strings"

	"paynote/internal/dto"
	"paynote/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const maxBriefSize = 10 << 20

type InvoiceHandler struct {
	invoices *service.InvoiceService
	delivery *service.DeliveryService
	logger   *zap.Logger
}

func NewInvoiceHandler(invoices *service.InvoiceService, delivery *service.DeliveryService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		delivery: delivery,
		logger:   logger,
	}
}

// GenerateInvoice godoc
// @Summary Generate an invoice preview
// @Description Extracts invoice fields from a free-text description. Nothing is saved.
// @Tags public
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoiceRequest true "Free-text description"
// @Success 200 {object} dto.GenerateInvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /generate-invoice [post]
func (h *InvoiceHandler) GenerateInvoice(c *fiber.Ctx) error {
	var req dto.GenerateInvoiceRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Description) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Description requise",
		})
	}

	inv, err := h.invoices.Generate(c.Context(), req.Description)
	if err != nil {
		return respondError(c, h.logger, err, "Erreur lors de la génération de la facture")
	}

	return c.JSON(dto.NewGenerateInvoiceResponse(inv))
}

// Generate godoc
// @Summary Generate a numbered invoice preview
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body dto.GenerateInvoiceRequest true "Free-text description"
// @Security Bearer
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/invoices/generate [post]
func (h *InvoiceHandler) Generate(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.GenerateInvoiceRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Description) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Description requise",
		})
	}

	inv, err := h.invoices.GenerateNumbered(c.Context(), session, req.Description)
	if err != nil {
		return respondError(c, h.logger, err, "Erreur lors de la génération de la facture")
	}

	return c.JSON(dto.NewInvoiceResponse(inv))
}

// GenerateFromBrief godoc
// @Summary Generate a numbered invoice preview from a PDF brief
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF brief"
// @Security Bearer
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/invoices/brief [post]
func (h *InvoiceHandler) GenerateFromBrief(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}
	if file.Size > maxBriefSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is too large",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxBriefSize))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	inv, err := h.invoices.GenerateFromBrief(c.Context(), session, data)
	if err != nil {
		return respondError(c, h.logger, err, "Erreur lors de la génération de la facture")
	}

	return c.JSON(dto.NewInvoiceResponse(inv))
}

// AssignNumber godoc
// @Summary Reserve the next invoice number
// @Tags invoices
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.InvoiceNumberResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/invoices/number [post]
func (h *InvoiceHandler) AssignNumber(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(dto.InvoiceNumberResponse{
		InvoiceNumber: h.invoices.AssignNumber(c.Context(), session),
	})
}

// Save godoc
// @Summary Save an invoice
// @Description Inserts a new invoice or, when the number already exists, updates its status and PDF link.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body dto.SaveInvoiceRequest true "Invoice"
// @Security Bearer
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/invoices [post]
func (h *InvoiceHandler) Save(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.SaveInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	inv, err := req.ToModel()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Dates must use the YYYY-MM-DD format",
		})
	}

	saved, err := h.invoices.Save(c.Context(), session, inv)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to save invoice")
	}

	return c.JSON(dto.NewInvoiceResponse(saved))
}

// List godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {object} dto.InvoiceListResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	invoices, err := h.invoices.List(c.Context(), session, limit, offset)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to list invoices")
	}

	return c.JSON(dto.InvoiceListResponse{
		Invoices: dto.NewInvoiceResponses(invoices),
		Limit:    limit,
		Offset:   offset,
	})
}

// Export godoc
// @Summary Export invoices as XLSX
// @Tags invoices
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security Bearer
// @Success 200 {file} file
// @Failure 401 {object} map[string]string
// @Router /api/v1/invoices/export [get]
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	data, err := h.invoices.ExportXLSX(c.Context(), session)
	if err != nil {
		return respondError(c, h.logger, err, "Failed to export invoices")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="factures.xlsx"`)
	return c.Send(data)
}

// Get godoc
// @Summary Get an invoice by number
// @Tags invoices
// @Produce json
// @Param number path string true "Invoice number"
// @Security Bearer
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/invoices/{number} [get]
func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	inv, err := h.invoices.Get(c.Context(), session, c.Params("number"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to load invoice")
	}

	return c.JSON(dto.NewInvoiceResponse(inv))
}

// PublishPDF godoc
// @Summary Render and publish the invoice PDF
// @Description Uploads the PDF, records its URL and returns the document.
// @Tags invoices
// @Produce application/pdf
// @Param number path string true "Invoice number"
// @Security Bearer
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/invoices/{number}/pdf [post]
func (h *InvoiceHandler) PublishPDF(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	inv, pdf, err := h.delivery.PublishPDF(c.Context(), session, c.Params("number"))
	if err != nil {
		return respondError(c, h.logger, err, "Failed to publish PDF")
	}

	if inv.PDFURL != nil {
		c.Set("X-PDF-URL", *inv.PDFURL)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.pdf"`, inv.InvoiceNumber))
	return c.Send(pdf)
}

// Send godoc
// @Summary Email the invoice to the client
// @Description Publishes the PDF, emails the client and marks the invoice as sent.
// @Tags invoices
// @Produce json
// @Param number path string true "Invoice number"
// @Security Bearer
// @Success 200 {object} dto.SendInvoiceResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/invoices/{number}/send [post]
func (h *InvoiceHandler) Send(c *fiber.Ctx) error {
	session, err := sessionFrom(c)
	if err != nil {
		return unauthorized(c)
	}

	inv, receipt, err := h.delivery.Send(c.Context(), session, c.Params("number"))
	if err != nil {
		return respondError(c, h.logger, err, "Erreur lors de l'envoi de l'email")
	}

	return c.JSON(dto.SendInvoiceResponse{
		Invoice:  dto.NewInvoiceResponse(inv),
		Delivery: receipt,
	})
}
