package service

import (
	"context"
	"time"

	"paynote/internal/models"

	"github.com/google/uuid"
)

//go:generate go run go.uber.org/mock/mockgen@v0.4.0 -source=interfaces.go -destination=../mocks/service.go -package=mocks

// ChatCompleter sends one system prompt and one user message to a chat model and
// returns the text of the first choice. Implementations map transport failures to
// models.ErrUpstreamUnavailable, models.ErrRateLimited or models.ErrUpstreamFormat.
type ChatCompleter interface {
	Complete(ctx context.Context, systemPrompt, userMessage string) (string, error)
}

type InvoiceStore interface {
	Insert(ctx context.Context, inv *models.Invoice) error
	FindByNumber(ctx context.Context, ownerID uuid.UUID, number string) (*models.Invoice, error)
	UpdateDelivery(ctx context.Context, id uuid.UUID, status models.InvoiceStatus, pdfURL *string, sentAt *time.Time) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]models.Invoice, error)
}

// OwnerCounter exposes both the atomic increment and the plain read/write used
// as its fallback.
type OwnerCounter interface {
	IncrementInvoiceCount(ctx context.Context, ownerID uuid.UUID, by int) error
	InvoiceCount(ctx context.Context, ownerID uuid.UUID) (int, error)
	SetInvoiceCount(ctx context.Context, ownerID uuid.UUID, count int) error
}

type SequenceSource interface {
	NextInvoiceNumber(ctx context.Context, ownerID uuid.UUID) (string, error)
}

type EventPublisher interface {
	PublishInvoiceEvent(ctx context.Context, event models.InvoiceEvent)
}

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateIssuer(ctx context.Context, user *models.User) error
}

type Mailer interface {
	Send(ctx context.Context, email models.Email) (*models.DeliveryReceipt, error)
}

// ObjectStorage uploads (overwriting) an object and returns its public URL.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}
