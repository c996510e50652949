package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventInvoiceCreated = "invoice.created"
	EventInvoiceUpdated = "invoice.updated"
)

type InvoiceEvent struct {
	Type          string        `json:"type"`
	InvoiceID     uuid.UUID     `json:"invoice_id"`
	OwnerID       uuid.UUID     `json:"owner_id"`
	InvoiceNumber string        `json:"invoice_number"`
	Status        InvoiceStatus `json:"status"`
	Total         string        `json:"total"`
	Currency      string        `json:"currency"`
	OccurredAt    time.Time     `json:"occurred_at"`
}
