package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

type submissionEvent struct {
	ID         string     `json:"id"`
	Submission Submission `json:"submission"`
	ReceivedAt time.Time  `json:"received_at"`
}

// KafkaNotifier publishes accepted submissions to a topic for whatever
// downstream consumer handles them (support inbox, CRM import).
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers ...string) *KafkaNotifier {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "contact-submissions",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaNotifier{writer: w}
}

func (n *KafkaNotifier) Notify(ctx context.Context, id string, sub Submission) error {
	payload, err := json.Marshal(submissionEvent{
		ID:         id,
		Submission: sub,
		ReceivedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal submission event: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(id),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("publish submission event: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
