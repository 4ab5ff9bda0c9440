// README: Kafka writer for outbound pricing events.
package infra

import (
	"time"

	"github.com/segmentio/kafka-go"
)

// NewEventWriter returns a synchronous writer: WriteMessages blocks until the
// brokers acknowledge or the context expires.
func NewEventWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
}
