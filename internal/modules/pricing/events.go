// README: Publishes fare.estimated events to Kafka.
package pricing

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

const estimateMessageKey = "fare_estimate"

// MessageWriter is the subset of *kafka.Writer used here.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishEstimate(ctx context.Context, evt FareEstimated) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(estimateMessageKey),
		Value: value,
		Time:  evt.Timestamp,
	})
}
