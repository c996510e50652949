package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NumberGenerator assigns FAC-<year>-<4 digits> invoice numbers. The remote
// sequence is tried on every call; when it fails or answers empty, a random
// local number is used instead. Local numbers can collide with each other and
// with sequence numbers, and nothing here detects that.
type NumberGenerator struct {
	source SequenceSource
	logger *zap.Logger
}

func NewNumberGenerator(source SequenceSource, logger *zap.Logger) *NumberGenerator {
	return &NumberGenerator{
		source: source,
		logger: logger,
	}
}

func (g *NumberGenerator) Next(ctx context.Context, ownerID uuid.UUID) string {
	if g.source != nil {
		number, err := g.source.NextInvoiceNumber(ctx, ownerID)
		if err == nil && strings.TrimSpace(number) != "" {
			return strings.TrimSpace(number)
		}
		g.logger.Warn("Invoice sequence unavailable, using local number",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
	}

	return LocalInvoiceNumber(time.Now().Year(), rand.IntN(10000))
}

func LocalInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("FAC-%d-%04d", year, seq)
}
