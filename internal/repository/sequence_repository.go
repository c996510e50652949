package repository

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SequenceRepository hands out per-owner, per-year invoice numbers from the
// generate_invoice_number database function.
type SequenceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSequenceRepository(db *pgxpool.Pool, logger *zap.Logger) *SequenceRepository {
	return &SequenceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SequenceRepository) NextInvoiceNumber(ctx context.Context, ownerID uuid.UUID) (string, error) {
	query := squirrel.Select().
		Column(squirrel.Expr("generate_invoice_number(?)", ownerID)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var number *string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&number); err != nil {
		return "", err
	}
	if number == nil {
		return "", nil
	}
	return *number, nil
}
