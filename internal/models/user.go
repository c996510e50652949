package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PlanFree            = "free"
	DefaultInvoiceLimit = 5
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	FullName     string    `db:"full_name"`
	PasswordHash *string   `db:"password_hash"`
	Plan         string    `db:"plan"`
	InvoiceLimit int       `db:"invoice_limit"`
	InvoiceCount int       `db:"invoice_count"`
	CompanyName  *string   `db:"company_name"`
	SIRET        *string   `db:"siret"`
	Address      *string   `db:"address"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Session identifies the authenticated owner of a request.
type Session struct {
	OwnerID  uuid.UUID
	Email    string
	FullName string
}
