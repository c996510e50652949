package models

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Email struct {
	To          []string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// DeliveryReceipt is what the mail provider reported back for an accepted message.
type DeliveryReceipt struct {
	Provider  string         `json:"provider"`
	MessageID string         `json:"id,omitempty"`
	Raw       map[string]any `json:"raw,omitempty"`
}
