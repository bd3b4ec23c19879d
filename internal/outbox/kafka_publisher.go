package outbox

import (
	"context"

	"shoptobd/internal/model"
)

// MessageSender is satisfied by *kafka.Producer.
type MessageSender interface {
	SendMessage(ctx context.Context, topic, key string, value []byte) error
}

// KafkaPublisher writes each event to one topic keyed by aggregate id,
// so events for the same order or invoice stay ordered.
type KafkaPublisher struct {
	sender MessageSender
	topic  string
}

func NewKafkaPublisher(sender MessageSender, topic string) *KafkaPublisher {
	return &KafkaPublisher{sender: sender, topic: topic}
}

func (k *KafkaPublisher) Name() string { return "kafka" }

func (k *KafkaPublisher) Publish(ctx context.Context, msg *model.OutboxMessage) error {
	return k.sender.SendMessage(ctx, k.topic, msg.AggregateID, msg.Payload)
}
