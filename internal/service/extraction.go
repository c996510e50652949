package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"paynote/internal/models"

	"go.uber.org/zap"
)

// ExtractionPrompt is the contract the model must follow. The normalizer still
// treats every reply as untrusted.
const ExtractionPrompt = `Tu es un assistant expert en facturation française.
Extrait les informations d'une facture à partir d'une description en langage naturel.

Tu dois extraire:
- client_name: Nom du client ou société
- client_email: Email du client (si mentionné, sinon null)
- client_company: Nom de société (si mentionné, sinon null)
- service_description: Description professionnelle du service
- quantity: Nombre de jours/unités (défaut: 1)
- unit_price: Prix unitaire en nombre
- currency: Code devise (EUR, USD, etc. - défaut EUR)
- payment_terms: Délai de paiement en jours (défaut: 30)

Règles:
- Si montant total donné, calcule unit_price = total / quantity
- Détecte tarifs journaliers (ex: "400$/jour pendant 12 jours" = quantity: 12, unit_price: 400, currency: USD)
- Retourne UNIQUEMENT du JSON valide, sans texte avant ou après, sans balises markdown

Format JSON:
{
  "client_name": "Nom Client",
  "client_email": "email@exemple.fr",
  "client_company": "Société XYZ",
  "service_description": "Description du service",
  "quantity": 3,
  "unit_price": 500,
  "currency": "EUR",
  "payment_terms": 30
}`

const extractionUserPrefix = "Extrait les infos de cette facture en JSON:\n\n"

type ExtractionClient struct {
	completer ChatCompleter
	timeout   time.Duration
	logger    *zap.Logger
}

func NewExtractionClient(completer ChatCompleter, timeout time.Duration, logger *zap.Logger) *ExtractionClient {
	return &ExtractionClient{
		completer: completer,
		timeout:   timeout,
		logger:    logger,
	}
}

// Extract returns the raw model reply. It is never trusted as-is; callers pass
// it to NormalizeExtraction.
func (c *ExtractionClient) Extract(ctx context.Context, description string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.completer.Complete(ctx, ExtractionPrompt, extractionUserPrefix+description)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, models.ErrUpstreamUnavailable) {
			return "", errors.Join(models.ErrUpstreamUnavailable, err)
		}
		return "", err
	}

	c.logger.Debug("Model reply received", zap.String("preview", preview(raw, 200)))

	return raw, nil
}

// ExtractDraft runs Extract and NormalizeExtraction.
func (c *ExtractionClient) ExtractDraft(ctx context.Context, description string) (*models.InvoiceDraft, error) {
	raw, err := c.Extract(ctx, description)
	if err != nil {
		return nil, err
	}

	draft, err := NormalizeExtraction(raw)
	if err != nil {
		c.logger.Warn("Model reply rejected",
			zap.Error(err),
			zap.String("preview", preview(raw, 200)),
		)
		return nil, err
	}

	return draft, nil
}

func preview(s string, n int) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
