package kafka

import (
	"context"

	kgo "github.com/segmentio/kafka-go"
)

// MessageReader - часть *kafka.Reader, которой пользуется Consumer.
// Offset фиксируется явно через CommitMessages
//
//go:generate mockgen -source=transport.go -destination=mock_transport.go -package=kafka
type MessageReader interface {
	FetchMessage(ctx context.Context) (kgo.Message, error)
	CommitMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}

// MessageWriter - часть *kafka.Writer, которой пользуется Producer
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kgo.Message) error
	Close() error
}
