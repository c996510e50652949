package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"paynote/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var invoiceColumns = []string{
	"id", "user_id", "invoice_number", "client_name", "client_email", "client_company",
	"issue_date", "due_date", "currency", "items", "subtotal", "tax", "total", "notes",
	"status", "pdf_url", "sent_at", "created_at", "updated_at",
}

type InvoiceRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInvoiceRepository(db *pgxpool.Pool, logger *zap.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InvoiceRepository) Insert(ctx context.Context, inv *models.Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	query := squirrel.Insert("invoices").
		Columns(invoiceColumns...).
		Values(
			inv.ID, inv.OwnerID, inv.InvoiceNumber, inv.ClientName, inv.ClientEmail, inv.ClientCompany,
			inv.IssueDate, inv.DueDate, inv.Currency, items, inv.Subtotal, inv.Tax, inv.Total, inv.Notes,
			string(inv.Status), inv.PDFURL, inv.SentAt, inv.CreatedAt, inv.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// FindByNumber returns models.ErrNotFound when the owner has no invoice with that number.
func (r *InvoiceRepository) FindByNumber(ctx context.Context, ownerID uuid.UUID, number string) (*models.Invoice, error) {
	query := squirrel.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"user_id": ownerID, "invoice_number": number}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	inv, err := scanInvoice(r.db.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return inv, nil
}

func (r *InvoiceRepository) UpdateDelivery(
	ctx context.Context,
	id uuid.UUID,
	status models.InvoiceStatus,
	pdfURL *string,
	sentAt *time.Time,
) error {
	query := squirrel.Update("invoices").
		Set("status", string(status)).
		Set("pdf_url", pdfURL).
		Set("sent_at", sentAt).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (r *InvoiceRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]models.Invoice, error) {
	query := squirrel.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"user_id": ownerID}).
		OrderBy("created_at DESC", "invoice_number DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			r.logger.Error("Failed to scan invoice", zap.Error(err))
			return nil, err
		}
		invoices = append(invoices, *inv)
	}

	return invoices, rows.Err()
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var (
		inv    models.Invoice
		items  []byte
		status string
	)

	err := row.Scan(
		&inv.ID, &inv.OwnerID, &inv.InvoiceNumber, &inv.ClientName, &inv.ClientEmail, &inv.ClientCompany,
		&inv.IssueDate, &inv.DueDate, &inv.Currency, &items, &inv.Subtotal, &inv.Tax, &inv.Total, &inv.Notes,
		&status, &inv.PDFURL, &inv.SentAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items of invoice %s: %w", inv.ID, err)
	}
	inv.Status = models.InvoiceStatus(status)

	return &inv, nil
}
