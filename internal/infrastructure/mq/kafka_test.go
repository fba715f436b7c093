package mq

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()
	mockProducer := mocks.NewSyncProducer(t, nil)
	return &Producer{
		producer: mockProducer,
		tracer:   noop.NewTracerProvider().Tracer("test"),
	}, mockProducer
}

func TestProducer_Publish(t *testing.T) {
	t.Run("正常系: メッセージを送信できる", func(t *testing.T) {
		p, mockProducer := newTestProducer(t)
		mockProducer.ExpectSendMessageAndSucceed()

		err := p.Publish(context.Background(), "global-announcements", "evt-1", `{"gross_value":20000}`)
		assert.NoError(t, err)
		require.NoError(t, p.Close())
	})

	t.Run("異常系: 送信失敗はエラーを返す", func(t *testing.T) {
		p, mockProducer := newTestProducer(t)
		mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		err := p.Publish(context.Background(), "global-announcements", "evt-2", "{}")
		assert.Error(t, err)
		require.NoError(t, p.Close())
	})
}
