package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	kgo "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 500 * time.Millisecond
)

// Consumer читает события корзин с фиксацией offset после обработки.
// Битые и невалидные сообщения фиксируются сразу, чтобы не блокировать партицию.
// Ошибка handler повторяется MaxAttempts раз, затем событие пропускается
type Consumer struct {
	Reader       MessageReader
	Logger       *zap.SugaredLogger
	MaxAttempts  int
	RetryBackoff time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, logger *zap.SugaredLogger) *Consumer {
	return &Consumer{
		Reader: kgo.NewReader(kgo.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3, // 10KB
			MaxBytes: 10e6, // 10MB
		}),
		Logger:       logger,
		MaxAttempts:  DefaultMaxAttempts,
		RetryBackoff: DefaultRetryBackoff,
	}
}

func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, Event) error) {
	for {
		msg, err := c.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return
			}
			c.Logger.Errorf("failed to fetch message: %v", err)
			continue
		}

		event, err := decodeEvent(msg)
		switch {
		case err != nil:
			eventsConsumed.WithLabelValues("unknown", statusSkipped).Inc()
			c.Logger.Warnf("skipping message at offset %d: %v", msg.Offset, err)
		case !c.handle(ctx, handler, event):
			if ctx.Err() != nil {
				return
			}
			eventsConsumed.WithLabelValues(string(event.Type), statusFailed).Inc()
			c.Logger.Errorf("giving up on %s event for cart %s at offset %d", event.Type, event.CartID, msg.Offset)
		default:
			eventsConsumed.WithLabelValues(string(event.Type), statusOK).Inc()
		}

		if err := c.Reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.Logger.Errorf("failed to commit offset %d: %v", msg.Offset, err)
		}
	}
}

// handle вызывает handler с повторами, false - все попытки неуспешны
func (c *Consumer) handle(ctx context.Context, handler func(context.Context, Event) error, event Event) bool {
	attempts := c.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; i <= attempts; i++ {
		err := handler(ctx, event)
		if err == nil {
			return true
		}
		c.Logger.Warnf("failed to process %s event (attempt %d/%d): %v", event.Type, i, attempts, err)

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(c.RetryBackoff):
		}
	}

	return false
}

func (c *Consumer) Close() error {
	return c.Reader.Close()
}

func decodeEvent(msg kgo.Message) (Event, error) {
	var event Event
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return Event{}, err
	}

	return event, event.Validate()
}
