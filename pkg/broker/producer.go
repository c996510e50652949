package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"paynote/internal/models"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer struct {
	logger *zap.Logger
	w      *kafka.Writer
	topic  string
}

func NewProducer(logger *zap.Logger, brokers []string, topic string) *Producer {
	logger = logger.Named("kafka").With(zap.String("topic", topic))

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		Async:                  true,
		Logger:                 kafka.LoggerFunc(logger.Sugar().Debugf),
		ErrorLogger:            kafka.LoggerFunc(logger.Sugar().Errorf),
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		logger: logger,
		w:      w,
		topic:  topic,
	}
}

// PublishInvoiceEvent is best-effort: failures are logged, never returned.
// Events are keyed by invoice id so one invoice's history stays in order.
func (p *Producer) PublishInvoiceEvent(ctx context.Context, event models.InvoiceEvent) {
	b, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal invoice event", zap.Error(err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.InvoiceID.String()),
		Value: b,
	})
	if err != nil {
		p.logger.Error(fmt.Sprintf("write kafka message: %s", err),
			zap.String("event", event.Type),
			zap.String("invoice_number", event.InvoiceNumber),
		)
	}
}

func (p *Producer) Close() {
	if err := p.w.Close(); err != nil {
		p.logger.Error("close kafka writer", zap.Error(err))
	}
}

// NopPublisher is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishInvoiceEvent(context.Context, models.InvoiceEvent) {}

func (NopPublisher) Close() {}
