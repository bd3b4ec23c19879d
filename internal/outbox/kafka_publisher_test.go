package outbox_test

import (
	"context"
	"testing"

	"shoptobd/internal/model"
	"shoptobd/internal/outbox"
	"shoptobd/pkg/kafka"

	"github.com/Shopify/sarama"
	saramamocks "github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafkaPublisher_SendsPayloadToTopic(t *testing.T) {
	sp := saramamocks.NewSyncProducer(t, sarama.NewConfig())
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		assert.JSONEq(t, `{"event_type":"order.finalized"}`, string(val))
		return nil
	})

	producer := kafka.NewProducerFrom(sp, zap.NewNop())
	defer producer.Close()

	pub := outbox.NewKafkaPublisher(producer, "shop.events")
	assert.Equal(t, "kafka", pub.Name())

	err := pub.Publish(context.Background(), &model.OutboxMessage{
		AggregateID: "ORD-20250301-0001",
		Payload:     []byte(`{"event_type":"order.finalized"}`),
	})
	require.NoError(t, err)
}
