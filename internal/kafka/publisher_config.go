package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

type PublisherConfig struct {
	Brokers      []string
	Topic        string
	BufferSize   int
	WriteTimeout time.Duration
	RetryInitial time.Duration
	RetryMax     time.Duration
	MaxAttempts  int
}

func (c *PublisherConfig) newWriter() *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafka.Hash{}, // события одного заказа — в одну партицию
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		BatchTimeout:           50 * time.Millisecond,
	}
}
