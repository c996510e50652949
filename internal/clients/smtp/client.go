package smtp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"

	"paynote/internal/clients"
	"paynote/internal/models"
	"paynote/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const providerName = "smtp"

type Client struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
	logger   *zap.Logger
}

func New(cfg config.MailConfig, logger *zap.Logger) *Client {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPLogin, cfg.SMTPPassword)

	dialer.TLSConfig = &tls.Config{
		ServerName: cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}

	return &Client{
		dialer:   dialer,
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
}

// Send delivers over SMTP. gomail has no context support, so ctx is only
// checked before dialing.
func (c *Client) Send(ctx context.Context, email models.Email) (*models.DeliveryReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, clients.TransportError(providerName, err)
	}

	msg := BuildMessage(c.from, c.fromName, email)
	messageID := fmt.Sprintf("<%s@paynote>", uuid.NewString())
	msg.SetHeader("Message-ID", messageID)

	if err := c.dialer.DialAndSend(msg); err != nil {
		c.logger.Error("SMTP delivery failed", zap.Strings("to", email.To), zap.Error(err))
		return nil, clients.TransportError(providerName, err)
	}

	return &models.DeliveryReceipt{
		Provider:  providerName,
		MessageID: messageID,
	}, nil
}

func BuildMessage(from, fromName string, email models.Email) *gomail.Message {
	msg := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	msg.SetAddressHeader("From", from, fromName)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	for _, a := range email.Attachments {
		content := a.Content
		msg.Attach(a.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
		)
	}

	return msg
}
