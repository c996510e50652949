package resend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paynote/internal/clients"
	"paynote/internal/models"
	"paynote/pkg/config"

	"go.uber.org/zap"
)

const (
	providerName    = "resend"
	maxResponseSize = 1 << 20
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	from       string
	logger     *zap.Logger
}

func New(cfg config.MailConfig, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.ResendURL, "/"),
		apiKey:     cfg.ResendAPIKey,
		from:       fmt.Sprintf("%s <%s>", cfg.FromName, cfg.From),
		logger:     logger,
	}
}

type attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type sendRequest struct {
	From        string       `json:"from"`
	To          []string     `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Attachments []attachment `json:"attachments,omitempty"`
}

func (c *Client) Send(ctx context.Context, email models.Email) (*models.DeliveryReceipt, error) {
	payload := sendRequest{
		From:    c.from,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTML,
	}
	for _, a := range email.Attachments {
		payload.Attachments = append(payload.Attachments, attachment{
			Filename:    a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, clients.TransportError(providerName, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, clients.TransportError(providerName, err)
	}

	var data map[string]any
	_ = json.Unmarshal(raw, &data)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := string(raw)
		if msg, ok := data["message"].(string); ok && msg != "" {
			detail = msg
		}
		c.logger.Error("Resend API error", zap.Int("status", resp.StatusCode), zap.String("detail", detail))
		return nil, clients.StatusError(providerName, resp.StatusCode, detail)
	}

	id, _ := data["id"].(string)
	if id == "" {
		return nil, clients.FormatError(providerName, "missing message id")
	}

	return &models.DeliveryReceipt{
		Provider:  providerName,
		MessageID: id,
		Raw:       data,
	}, nil
}
