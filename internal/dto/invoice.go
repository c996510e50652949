package dto

import (
	"time"

	"paynote/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type GenerateInvoiceRequest struct {
	Description string `json:"description"`
}

type InvoiceItemResponse struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Total       float64 `json:"total"`
}

// GenerateInvoiceResponse is the preview returned by the public endpoint.
type GenerateInvoiceResponse struct {
	ClientName    string                `json:"client_name"`
	ClientEmail   *string               `json:"client_email"`
	ClientCompany *string               `json:"client_company"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date"`
	Currency      string                `json:"currency"`
	Subtotal      float64               `json:"subtotal"`
	Total         float64               `json:"total"`
	Items         []InvoiceItemResponse `json:"items"`
	Notes         string                `json:"notes"`
	Status        string                `json:"status"`
}

type InvoiceResponse struct {
	ID            string                `json:"id,omitempty"`
	InvoiceNumber string                `json:"invoice_number"`
	ClientName    string                `json:"client_name"`
	ClientEmail   *string               `json:"client_email"`
	ClientCompany *string               `json:"client_company"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date"`
	Currency      string                `json:"currency"`
	Subtotal      float64               `json:"subtotal"`
	Tax           float64               `json:"tax"`
	Total         float64               `json:"total"`
	Items         []InvoiceItemResponse `json:"items"`
	Notes         string                `json:"notes"`
	Status        string                `json:"status"`
	PDFURL        *string               `json:"pdf_url"`
	SentAt        *time.Time            `json:"sent_at"`
	CreatedAt     *time.Time            `json:"created_at,omitempty"`
}

type InvoiceListResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

type InvoiceNumberResponse struct {
	InvoiceNumber string `json:"invoice_number"`
}

type SaveInvoiceItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// SaveInvoiceRequest carries a previewed invoice back for persistence. Money
// fields accept JSON numbers or numeric strings.
type SaveInvoiceRequest struct {
	InvoiceNumber string            `json:"invoice_number"`
	ClientName    string            `json:"client_name"`
	ClientEmail   *string           `json:"client_email"`
	ClientCompany *string           `json:"client_company"`
	IssueDate     string            `json:"issue_date"`
	DueDate       string            `json:"due_date"`
	Currency      string            `json:"currency"`
	Items         []SaveInvoiceItem `json:"items"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	Notes         string            `json:"notes"`
	Status        string            `json:"status"`
	PDFURL        *string           `json:"pdf_url"`
}

type SendInvoiceResponse struct {
	Invoice  InvoiceResponse         `json:"invoice"`
	Delivery *models.DeliveryReceipt `json:"delivery"`
}

func NewGenerateInvoiceResponse(inv *models.Invoice) GenerateInvoiceResponse {
	return GenerateInvoiceResponse{
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientCompany: inv.ClientCompany,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Currency:      inv.Currency,
		Subtotal:      inv.Subtotal.InexactFloat64(),
		Total:         inv.Total.InexactFloat64(),
		Items:         newItemResponses(inv.Items),
		Notes:         inv.Notes,
		Status:        string(inv.Status),
	}
}

func NewInvoiceResponse(inv *models.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		ClientEmail:   inv.ClientEmail,
		ClientCompany: inv.ClientCompany,
		IssueDate:     inv.IssueDate.Format(dateLayout),
		DueDate:       inv.DueDate.Format(dateLayout),
		Currency:      inv.Currency,
		Subtotal:      inv.Subtotal.InexactFloat64(),
		Tax:           inv.Tax.InexactFloat64(),
		Total:         inv.Total.InexactFloat64(),
		Items:         newItemResponses(inv.Items),
		Notes:         inv.Notes,
		Status:        string(inv.Status),
		PDFURL:        inv.PDFURL,
		SentAt:        inv.SentAt,
	}
	if inv.ID != uuid.Nil {
		resp.ID = inv.ID.String()
	}
	if !inv.CreatedAt.IsZero() {
		createdAt := inv.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

func NewInvoiceResponses(invoices []models.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		out = append(out, NewInvoiceResponse(&invoices[i]))
	}
	return out
}

// ToModel parses dates and copies the request into an invoice. Totals are
// taken as given; the service recomputes them.
func (r *SaveInvoiceRequest) ToModel() (*models.Invoice, error) {
	issue, err := time.Parse(dateLayout, r.IssueDate)
	if err != nil {
		return nil, err
	}
	due, err := time.Parse(dateLayout, r.DueDate)
	if err != nil {
		return nil, err
	}

	items := make([]models.InvoiceItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, models.InvoiceItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.Total,
		})
	}

	return &models.Invoice{
		InvoiceNumber: r.InvoiceNumber,
		ClientName:    r.ClientName,
		ClientEmail:   r.ClientEmail,
		ClientCompany: r.ClientCompany,
		IssueDate:     issue,
		DueDate:       due,
		Currency:      r.Currency,
		Items:         items,
		Subtotal:      r.Subtotal,
		Tax:           r.Tax,
		Total:         r.Total,
		Notes:         r.Notes,
		Status:        models.InvoiceStatus(r.Status),
		PDFURL:        r.PDFURL,
	}, nil
}

func newItemResponses(items []models.InvoiceItem) []InvoiceItemResponse {
	out := make([]InvoiceItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, InvoiceItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity.InexactFloat64(),
			UnitPrice:   it.UnitPrice.InexactFloat64(),
			Total:       it.LineTotal.InexactFloat64(),
		})
	}
	return out
}
