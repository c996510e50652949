package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"paynote/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

var ErrDuplicate = fmt.Errorf("%w: duplicate key", models.ErrUserExists)

var userColumns = []string{
	"id", "email", "full_name", "password_hash", "plan", "invoice_limit", "invoice_count",
	"company_name", "siret", "address", "created_at", "updated_at",
}

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create returns ErrDuplicate when the id or email is already taken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := squirrel.Insert("users").
		Columns(userColumns...).
		Values(
			user.ID, user.Email, user.FullName, user.PasswordHash, user.Plan, user.InvoiceLimit, user.InvoiceCount,
			user.CompanyName, user.SIRET, user.Address, user.CreatedAt, user.UpdatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"email": email})
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// UpdateIssuer stores the details printed in the issuer block of invoices.
func (r *UserRepository) UpdateIssuer(ctx context.Context, user *models.User) error {
	query := squirrel.Update("users").
		Set("full_name", user.FullName).
		Set("company_name", user.CompanyName).
		Set("siret", user.SIRET).
		Set("address", user.Address).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": user.ID}).
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

// IncrementInvoiceCount calls the atomic increment(row_id, x) database function.
func (r *UserRepository) IncrementInvoiceCount(ctx context.Context, id uuid.UUID, by int) error {
	query := squirrel.Select().
		Column(squirrel.Expr("increment(?, ?)", id, by)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	var count *int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return err
	}
	if count == nil {
		return models.ErrNotFound
	}
	return nil
}

func (r *UserRepository) InvoiceCount(ctx context.Context, id uuid.UUID) (int, error) {
	query := squirrel.Select("invoice_count").
		From("users").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, models.ErrNotFound
	}
	return count, err
}

func (r *UserRepository) SetInvoiceCount(ctx context.Context, id uuid.UUID, count int) error {
	query := squirrel.Update("users").
		Set("invoice_count", count).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *UserRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	query := squirrel.Select(userColumns...).
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.Plan, &user.InvoiceLimit, &user.InvoiceCount,
		&user.CompanyName, &user.SIRET, &user.Address, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}
