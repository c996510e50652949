package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paynote/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxExportRows    = 5000
)

type InvoiceService struct {
	extractor *ExtractionClient
	numbers   *NumberGenerator
	gateway   *PersistenceGateway
	store     InvoiceStore
	profiles  *ProfileService
	briefs    *BriefReader
	policy    TotalsPolicy
	location  *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

func NewInvoiceService(
	extractor *ExtractionClient,
	numbers *NumberGenerator,
	gateway *PersistenceGateway,
	store InvoiceStore,
	profiles *ProfileService,
	briefs *BriefReader,
	policy TotalsPolicy,
	location *time.Location,
	logger *zap.Logger,
) *InvoiceService {
	if location == nil {
		location = time.UTC
	}
	return &InvoiceService{
		extractor: extractor,
		numbers:   numbers,
		gateway:   gateway,
		store:     store,
		profiles:  profiles,
		briefs:    briefs,
		policy:    policy,
		location:  location,
		now:       time.Now,
		logger:    logger,
	}
}

// BuildInvoice turns a draft into an unnumbered single-line preview.
func BuildInvoice(draft *models.InvoiceDraft, issueDate time.Time, policy TotalsPolicy) *models.Invoice {
	items := []models.InvoiceItem{{
		Description: draft.ServiceDescription,
		Quantity:    draft.Quantity,
		UnitPrice:   draft.UnitPrice,
		LineTotal:   LineTotal(draft.Quantity, draft.UnitPrice),
	}}
	totals := policy.Totals(items)

	return &models.Invoice{
		ClientName:    draft.ClientName,
		ClientEmail:   draft.ClientEmail,
		ClientCompany: draft.ClientCompany,
		IssueDate:     issueDate,
		DueDate:       DueDate(issueDate, draft.PaymentTermsDays),
		Currency:      draft.Currency,
		Items:         items,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		Notes:         fmt.Sprintf("Paiement sous %d jours", draft.PaymentTermsDays),
		Status:        models.InvoiceStatusDraft,
	}
}

// Generate extracts a draft from free text and returns the preview. Nothing is
// persisted.
func (s *InvoiceService) Generate(ctx context.Context, description string) (*models.Invoice, error) {
	description = strings.TrimSpace(sanitizeUTF8(description))
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", models.ErrValidation)
	}

	draft, err := s.extractor.ExtractDraft(ctx, description)
	if err != nil {
		return nil, err
	}

	return BuildInvoice(draft, s.today(), s.policy), nil
}

// GenerateNumbered is Generate followed by AssignNumber for the owner.
func (s *InvoiceService) GenerateNumbered(ctx context.Context, session models.Session, description string) (*models.Invoice, error) {
	inv, err := s.Generate(ctx, description)
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = s.AssignNumber(ctx, session)
	return inv, nil
}

// GenerateFromBrief uses the text of a PDF brief as the description.
func (s *InvoiceService) GenerateFromBrief(ctx context.Context, session models.Session, pdf []byte) (*models.Invoice, error) {
	text, err := s.briefs.ExtractText(pdf)
	if err != nil {
		return nil, err
	}
	return s.GenerateNumbered(ctx, session, text)
}

func (s *InvoiceService) AssignNumber(ctx context.Context, session models.Session) string {
	return s.numbers.Next(ctx, session.OwnerID)
}

// Save persists an invoice for the owner. Line totals and totals are
// recomputed from the items before writing.
func (s *InvoiceService) Save(ctx context.Context, session models.Session, inv *models.Invoice) (*models.Invoice, error) {
	if strings.TrimSpace(inv.ClientName) == "" {
		return nil, fmt.Errorf("%w: client_name is required", models.ErrValidation)
	}
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", models.ErrValidation)
	}
	if inv.DueDate.Before(inv.IssueDate) {
		return nil, fmt.Errorf("%w: due_date is before issue_date", models.ErrValidation)
	}

	inv.InvoiceNumber = strings.TrimSpace(inv.InvoiceNumber)
	inv.ClientName = strings.TrimSpace(sanitizeUTF8(inv.ClientName))
	inv.ClientEmail = blankToNil(deref(inv.ClientEmail))
	inv.ClientCompany = blankToNil(deref(inv.ClientCompany))
	inv.Currency = strings.ToUpper(strings.TrimSpace(inv.Currency))
	if inv.Currency == "" {
		inv.Currency = defaultCurrency
	}

	for i := range inv.Items {
		item := &inv.Items[i]
		item.Description = strings.TrimSpace(sanitizeUTF8(item.Description))
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", models.ErrValidation, i+1)
		}
		item.LineTotal = LineTotal(item.Quantity, item.UnitPrice)
	}
	totals := s.policy.Totals(inv.Items)
	inv.Subtotal, inv.Tax, inv.Total = totals.Subtotal, totals.Tax, totals.Total

	if _, err := s.profiles.EnsureProfile(ctx, session); err != nil {
		return nil, err
	}

	return s.gateway.Save(ctx, session, inv)
}

func (s *InvoiceService) Get(ctx context.Context, session models.Session, number string) (*models.Invoice, error) {
	inv, err := s.store.FindByNumber(ctx, session.OwnerID, number)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("invoice %s: %w", number, err)
		}
		return nil, fmt.Errorf("%w: find invoice %s: %w", models.ErrPersistence, number, err)
	}
	return inv, nil
}

// List returns the owner's invoices newest first. limit is clamped to [1, 100].
func (s *InvoiceService) List(ctx context.Context, session models.Session, limit, offset int) ([]models.Invoice, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	limit = min(limit, maxListLimit)
	offset = max(offset, 0)

	invoices, err := s.store.ListByOwner(ctx, session.OwnerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices: %w", models.ErrPersistence, err)
	}
	return invoices, nil
}

func (s *InvoiceService) ExportXLSX(ctx context.Context, session models.Session) ([]byte, error) {
	start := time.Now()

	invoices, err := s.store.ListByOwner(ctx, session.OwnerID, maxExportRows, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: list invoices: %w", models.ErrPersistence, err)
	}

	data, err := InvoicesXLSX(invoices)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoices exported",
		zap.String("owner_id", session.OwnerID.String()),
		zap.Int("rows", len(invoices)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)

	return data, nil
}

// today is the current calendar date in the configured timezone, as UTC midnight.
func (s *InvoiceService) today() time.Time {
	y, m, d := s.now().In(s.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
