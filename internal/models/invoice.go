package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// InvoiceDraft is the structured result of a model extraction, before any
// number, dates or totals are attached.
type InvoiceDraft struct {
	ClientName         string
	ClientEmail        *string
	ClientCompany      *string
	ServiceDescription string
	Quantity           decimal.Decimal
	UnitPrice          decimal.Decimal
	Currency           string
	PaymentTermsDays   int
}

type InvoiceItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type Invoice struct {
	ID            uuid.UUID       `db:"id"`
	OwnerID       uuid.UUID       `db:"user_id"`
	InvoiceNumber string          `db:"invoice_number"`
	ClientName    string          `db:"client_name"`
	ClientEmail   *string         `db:"client_email"`
	ClientCompany *string         `db:"client_company"`
	IssueDate     time.Time       `db:"issue_date"`
	DueDate       time.Time       `db:"due_date"`
	Currency      string          `db:"currency"`
	Items         []InvoiceItem   `db:"items"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	Tax           decimal.Decimal `db:"tax"`
	Total         decimal.Decimal `db:"total"`
	Notes         string          `db:"notes"`
	Status        InvoiceStatus   `db:"status"`
	PDFURL        *string         `db:"pdf_url"`
	SentAt        *time.Time      `db:"sent_at"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
