package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paynote/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PersistenceGateway writes invoices idempotently per (owner, invoice number).
// A repeated save only touches status, pdf_url and sent_at.
type PersistenceGateway struct {
	store   InvoiceStore
	counter OwnerCounter
	events  EventPublisher
	logger  *zap.Logger
}

func NewPersistenceGateway(store InvoiceStore, counter OwnerCounter, events EventPublisher, logger *zap.Logger) *PersistenceGateway {
	return &PersistenceGateway{
		store:   store,
		counter: counter,
		events:  events,
		logger:  logger,
	}
}

func (g *PersistenceGateway) Save(ctx context.Context, session models.Session, inv *models.Invoice) (*models.Invoice, error) {
	if err := validateForSave(inv); err != nil {
		return nil, err
	}
	inv.OwnerID = session.OwnerID

	existing, err := g.store.FindByNumber(ctx, session.OwnerID, inv.InvoiceNumber)
	switch {
	case err == nil:
		return g.update(ctx, existing, inv)
	case errors.Is(err, models.ErrNotFound):
		return g.insert(ctx, inv)
	default:
		return nil, fmt.Errorf("%w: find invoice %s: %w", models.ErrPersistence, inv.InvoiceNumber, err)
	}
}

// IncrementOwnerCount is best-effort: the atomic database increment is tried
// first, then a read-modify-write that may lose concurrent updates. Failures
// are logged and never reach the caller.
func (g *PersistenceGateway) IncrementOwnerCount(ctx context.Context, ownerID uuid.UUID) {
	err := g.counter.IncrementInvoiceCount(ctx, ownerID, 1)
	if err == nil {
		return
	}
	g.logger.Warn("Atomic invoice counter failed, falling back",
		zap.String("owner_id", ownerID.String()),
		zap.Error(err),
	)

	count, err := g.counter.InvoiceCount(ctx, ownerID)
	if err != nil {
		g.logger.Error("Failed to read invoice counter", zap.String("owner_id", ownerID.String()), zap.Error(err))
		return
	}

	if err := g.counter.SetInvoiceCount(ctx, ownerID, count+1); err != nil {
		g.logger.Error("Failed to write invoice counter", zap.String("owner_id", ownerID.String()), zap.Error(err))
	}
}

func (g *PersistenceGateway) insert(ctx context.Context, inv *models.Invoice) (*models.Invoice, error) {
	now := time.Now()
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusDraft
	}
	inv.SentAt = sentAtFor(inv.Status, now)
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if err := g.store.Insert(ctx, inv); err != nil {
		return nil, fmt.Errorf("%w: insert invoice %s: %w", models.ErrPersistence, inv.InvoiceNumber, err)
	}

	g.logger.Info("Invoice created",
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("owner_id", inv.OwnerID.String()),
	)

	g.IncrementOwnerCount(ctx, inv.OwnerID)
	g.publish(ctx, models.EventInvoiceCreated, inv)

	return inv, nil
}

func (g *PersistenceGateway) update(ctx context.Context, existing, incoming *models.Invoice) (*models.Invoice, error) {
	now := time.Now()
	if incoming.Status != "" {
		existing.Status = incoming.Status
	}
	if incoming.PDFURL != nil {
		existing.PDFURL = incoming.PDFURL
	}
	existing.SentAt = sentAtFor(existing.Status, now)
	existing.UpdatedAt = now

	err := g.store.UpdateDelivery(ctx, existing.ID, existing.Status, existing.PDFURL, existing.SentAt)
	if err != nil {
		return nil, fmt.Errorf("%w: update invoice %s: %w", models.ErrPersistence, existing.InvoiceNumber, err)
	}

	g.publish(ctx, models.EventInvoiceUpdated, existing)

	return existing, nil
}

func (g *PersistenceGateway) publish(ctx context.Context, eventType string, inv *models.Invoice) {
	if g.events == nil {
		return
	}
	g.events.PublishInvoiceEvent(ctx, models.InvoiceEvent{
		Type:          eventType,
		InvoiceID:     inv.ID,
		OwnerID:       inv.OwnerID,
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		Total:         inv.Total.StringFixed(2),
		Currency:      inv.Currency,
		OccurredAt:    time.Now().UTC(),
	})
}

func sentAtFor(status models.InvoiceStatus, now time.Time) *time.Time {
	if status != models.InvoiceStatusSent {
		return nil
	}
	return &now
}

func validateForSave(inv *models.Invoice) error {
	if inv == nil {
		return fmt.Errorf("%w: invoice is required", models.ErrValidation)
	}
	inv.InvoiceNumber = strings.TrimSpace(inv.InvoiceNumber)
	if inv.InvoiceNumber == "" {
		return fmt.Errorf("%w: invoice number is required", models.ErrValidation)
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: invoice must have at least one item", models.ErrValidation)
	}
	if inv.Status != "" && !inv.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", models.ErrValidation, inv.Status)
	}
	return nil
}
