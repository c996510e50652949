package gigachat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"paynote/internal/clients"
	"paynote/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

const providerName = "gigachat"

// gigago reports non-2xx answers only as text.
var statusErrRe = regexp.MustCompile(`(?s)^unexpected status (\d{3}): (.*)$`)

// Client completes chats through the GigaChat SDK. A model handle is built per
// call so the system prompt never leaks between concurrent requests.
type Client struct {
	client    *gigago.Client
	modelName string
	timeout   time.Duration
	logger    *zap.Logger
}

func New(ctx context.Context, cfg *config.GigaChatConfig, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.URL != "" {
		opts = append(opts, gigago.WithCustomURLAI(cfg.URL))
	}
	if cfg.OAuthURL != "" {
		opts = append(opts, gigago.WithCustomURLOauth(cfg.OAuthURL))
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	logger.Info("Using GigaChat model", zap.String("model", cfg.Model))

	return &Client{
		client:    client,
		modelName: cfg.Model,
		timeout:   timeout,
		logger:    logger,
	}, nil
}

func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = systemPrompt
	model.Temperature = 0.2

	resp, err := model.Generate(ctx, []gigago.Message{
		{Role: gigago.RoleUser, Content: userMessage},
	})
	if err != nil {
		c.logger.Error("GigaChat generation failed", zap.Error(err))
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 {
		return "", clients.FormatError(providerName, "no choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func classifyError(err error) error {
	if m := statusErrRe.FindStringSubmatch(err.Error()); m != nil {
		status, _ := strconv.Atoi(m[1])
		return clients.StatusError(providerName, status, m[2])
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return clients.FormatError(providerName, "undecodable response")
	}

	return clients.TransportError(providerName, err)
}

func (c *Client) Close() error {
	if c.client != nil {
		c.client.Close()
	}
	return nil
}
