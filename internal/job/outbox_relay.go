package job

import (
	"context"
	"time"

	"ledger-server/internal/domain/ledger"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

// MessagePublisher ブローカーへの送信ポート
type MessagePublisher interface {
	Publish(ctx context.Context, topic, key, payload string) error
}

// OutboxRelay 送信待ちメッセージをブローカーへ中継するバックグラウンドジョブ
// バッチと同一トランザクションで書かれたoutbox行をポーリングし、送信に
// 成功したものだけをマークする。失敗した行は次のポーリングで再送される
// ため、配送はat-least-once。
type OutboxRelay struct {
	outboxRepo ledger.OutboxRepository
	publisher  MessagePublisher
	logger     *otelinfra.Logger
	metrics    *otelinfra.Metrics
	interval   time.Duration
	batchSize  int
}

// NewOutboxRelay 新しいOutboxRelayを作成
func NewOutboxRelay(
	outboxRepo ledger.OutboxRepository,
	publisher MessagePublisher,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	interval time.Duration,
	batchSize int,
) *OutboxRelay {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		interval:   interval,
		batchSize:  batchSize,
	}
}

// Run ポーリングループを開始する。コンテキストのキャンセルで戻る。
func (r *OutboxRelay) Run(ctx context.Context) {
	r.logger.Info(ctx, "Outbox relay started", map[string]interface{}{
		"interval":   r.interval.String(),
		"batch_size": r.batchSize,
	})

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info(ctx, "Outbox relay stopped", nil)
			return
		case <-ticker.C:
			r.RelayOnce(ctx)
		}
	}
}

// RelayOnce 1回分のポーリングと送信を行い、送信できた件数を返す
func (r *OutboxRelay) RelayOnce(ctx context.Context) int {
	messages, err := r.outboxRepo.FetchPending(ctx, r.batchSize)
	if err != nil {
		r.logger.Error(ctx, "Failed to fetch pending messages", err, nil)
		r.metrics.RecordError(ctx, "outbox_fetch_failed")
		return 0
	}
	if len(messages) == 0 {
		return 0
	}

	published := make([]int64, 0, len(messages))
	for _, msg := range messages {
		if err := r.publisher.Publish(ctx, msg.Topic, msg.MessageKey, msg.Payload); err != nil {
			// 失敗した行は未送信のまま残し、次のポーリングで再送する
			r.logger.Error(ctx, "Failed to publish outbox message", err, map[string]interface{}{
				"message_id": msg.ID,
				"topic":      msg.Topic,
			})
			r.metrics.RecordError(ctx, "outbox_publish_failed")
			continue
		}
		published = append(published, msg.ID)
	}

	if len(published) == 0 {
		return 0
	}

	if err := r.outboxRepo.MarkPublished(ctx, published); err != nil {
		// マーク失敗は重複送信につながるが、購読側が冪等なので許容する
		r.logger.Error(ctx, "Failed to mark messages published", err, map[string]interface{}{
			"count": len(published),
		})
		r.metrics.RecordError(ctx, "outbox_mark_failed")
	}

	r.logger.Info(ctx, "Relayed outbox messages", map[string]interface{}{
		"published": len(published),
		"fetched":   len(messages),
	})
	return len(published)
}
