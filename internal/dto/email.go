package dto

type SendEmailRequest struct {
	To            string `json:"to"`
	InvoiceNumber string `json:"invoice_number"`
	PDFURL        string `json:"pdf_url"`
	ClientName    string `json:"client_name"`
}

type SendEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}
