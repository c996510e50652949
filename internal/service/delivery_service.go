package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"paynote/internal/models"

	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

type DeliveryService struct {
	store     InvoiceStore
	gateway   *PersistenceGateway
	profiles  *ProfileService
	renderer  *PDFRenderer
	storage   ObjectStorage
	mailer    Mailer
	attachPDF bool
	logger    *zap.Logger
}

func NewDeliveryService(
	store InvoiceStore,
	gateway *PersistenceGateway,
	profiles *ProfileService,
	renderer *PDFRenderer,
	storage ObjectStorage,
	mailer Mailer,
	attachPDF bool,
	logger *zap.Logger,
) *DeliveryService {
	return &DeliveryService{
		store:     store,
		gateway:   gateway,
		profiles:  profiles,
		renderer:  renderer,
		storage:   storage,
		mailer:    mailer,
		attachPDF: attachPDF,
		logger:    logger,
	}
}

// SendLink emails a download link for an already published PDF.
func (s *DeliveryService) SendLink(ctx context.Context, to, invoiceNumber, pdfURL, clientName string) (*models.DeliveryReceipt, error) {
	to = strings.TrimSpace(to)
	if to == "" || strings.TrimSpace(invoiceNumber) == "" || strings.TrimSpace(pdfURL) == "" || strings.TrimSpace(clientName) == "" {
		return nil, fmt.Errorf("%w: to, invoice_number, pdf_url and client_name are required", models.ErrValidation)
	}

	email, err := ComposeInvoiceEmail(to, InvoiceEmailData{
		ClientName:    clientName,
		InvoiceNumber: invoiceNumber,
		PDFURL:        pdfURL,
	})
	if err != nil {
		return nil, err
	}

	receipt, err := s.mailer.Send(ctx, email)
	if err != nil {
		s.logger.Error("Invoice email failed",
			zap.String("invoice_number", invoiceNumber),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("Invoice email sent",
		zap.String("invoice_number", invoiceNumber),
		zap.String("provider", receipt.Provider),
		zap.String("message_id", receipt.MessageID),
	)

	return receipt, nil
}

// PublishPDF renders and uploads the invoice, then records the new pdf_url.
// The status is left as it is.
func (s *DeliveryService) PublishPDF(ctx context.Context, session models.Session, number string) (*models.Invoice, []byte, error) {
	inv, err := s.load(ctx, session, number)
	if err != nil {
		return nil, nil, err
	}

	pdf, url, err := s.renderAndUpload(ctx, session, inv)
	if err != nil {
		return nil, nil, err
	}

	inv.PDFURL = &url
	saved, err := s.gateway.Save(ctx, session, inv)
	if err != nil {
		return nil, nil, err
	}

	return saved, pdf, nil
}

// Send publishes the PDF, emails the client and marks the invoice sent. When
// the email fails nothing is saved and the error is returned as is.
func (s *DeliveryService) Send(ctx context.Context, session models.Session, number string) (*models.Invoice, *models.DeliveryReceipt, error) {
	inv, err := s.load(ctx, session, number)
	if err != nil {
		return nil, nil, err
	}

	if inv.ClientEmail == nil || strings.TrimSpace(*inv.ClientEmail) == "" {
		return nil, nil, fmt.Errorf("%w: invoice %s has no client email", models.ErrValidation, number)
	}

	pdf, url, err := s.renderAndUpload(ctx, session, inv)
	if err != nil {
		return nil, nil, err
	}

	email, err := ComposeInvoiceEmail(*inv.ClientEmail, InvoiceEmailData{
		ClientName:    inv.ClientName,
		InvoiceNumber: inv.InvoiceNumber,
		PDFURL:        url,
	})
	if err != nil {
		return nil, nil, err
	}
	if s.attachPDF {
		email.Attachments = []models.Attachment{{
			Filename:    inv.InvoiceNumber + ".pdf",
			ContentType: pdfContentType,
			Content:     pdf,
		}}
	}

	receipt, err := s.mailer.Send(ctx, email)
	if err != nil {
		s.logger.Error("Invoice email failed",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.String("owner_id", session.OwnerID.String()),
			zap.Error(err),
		)
		return nil, nil, err
	}

	inv.PDFURL = &url
	inv.Status = models.InvoiceStatusSent
	saved, err := s.gateway.Save(ctx, session, inv)
	if err != nil {
		return nil, receipt, err
	}

	s.logger.Info("Invoice sent",
		zap.String("invoice_number", saved.InvoiceNumber),
		zap.String("provider", receipt.Provider),
		zap.String("message_id", receipt.MessageID),
	)

	return saved, receipt, nil
}

func (s *DeliveryService) load(ctx context.Context, session models.Session, number string) (*models.Invoice, error) {
	inv, err := s.store.FindByNumber(ctx, session.OwnerID, number)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("invoice %s: %w", number, err)
		}
		return nil, fmt.Errorf("%w: find invoice %s: %w", models.ErrPersistence, number, err)
	}
	return inv, nil
}

func (s *DeliveryService) renderAndUpload(ctx context.Context, session models.Session, inv *models.Invoice) ([]byte, string, error) {
	issuer, err := s.profiles.EnsureProfile(ctx, session)
	if err != nil {
		return nil, "", err
	}

	pdf, err := s.renderer.Render(inv, issuer)
	if err != nil {
		return nil, "", err
	}

	url, err := s.storage.Upload(ctx, PDFObjectKey(session, inv.InvoiceNumber), pdf, pdfContentType)
	if err != nil {
		s.logger.Error("PDF upload failed",
			zap.String("invoice_number", inv.InvoiceNumber),
			zap.Error(err),
		)
		return nil, "", err
	}

	return pdf, url, nil
}

func PDFObjectKey(session models.Session, invoiceNumber string) string {
	return session.OwnerID.String() + "/" + invoiceNumber + ".pdf"
}
