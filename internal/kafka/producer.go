package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kgo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// HeaderEventType - заголовок с типом события, чтобы читать его без разбора тела
const HeaderEventType = "event-type"

// Producer пишет события корзин. Ключ сообщения - cartID, поэтому
// события одной корзины попадают в одну партицию и читаются по порядку
type Producer struct {
	Writer MessageWriter
	Logger *zap.SugaredLogger
}

func NewProducer(brokers []string, topic string, logger *zap.SugaredLogger) *Producer {
	return &Producer{
		Writer: &kgo.Writer{
			Addr:         kgo.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kgo.Hash{},
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: kgo.RequireOne,
		},
		Logger: logger,
	}
}

func (p *Producer) SendEvent(ctx context.Context, event Event) error {
	if err := event.Validate(); err != nil {
		eventsPublished.WithLabelValues(string(event.Type), statusSkipped).Inc()
		return err
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}

	err = p.Writer.WriteMessages(ctx, kgo.Message{
		Key:   []byte(event.CartID),
		Value: value,
		Headers: []kgo.Header{
			{Key: HeaderEventType, Value: []byte(event.Type)},
		},
	})
	if err != nil {
		eventsPublished.WithLabelValues(string(event.Type), statusFailed).Inc()
		p.Logger.Errorf("failed to write %s event for cart %s: %v", event.Type, event.CartID, err)
		return err
	}

	eventsPublished.WithLabelValues(string(event.Type), statusOK).Inc()

	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
