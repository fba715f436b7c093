package projection

import (
	"context"

	"ledger-server/internal/domain/account"
	otelinfra "ledger-server/internal/infrastructure/observability/otel"
)

// SnapshotStream スナップショット購読ストリーム
type SnapshotStream interface {
	// Snapshots 受信したスナップショットのチャンネルを返す
	Snapshots() <-chan *account.Account
}

// Watcher 購読ストリームをプロジェクションへ流し込むループ
type Watcher struct {
	stream     SnapshotStream
	projection *AccountProjection
	logger     *otelinfra.Logger
}

// NewWatcher 新しいWatcherを作成
func NewWatcher(stream SnapshotStream, projection *AccountProjection, logger *otelinfra.Logger) *Watcher {
	return &Watcher{
		stream:     stream,
		projection: projection,
		logger:     logger,
	}
}

// Run スナップショットの受信を続ける
// コンテキストのキャンセルかストリームのクローズで戻る。
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-w.stream.Snapshots():
			if !ok {
				w.logger.Info(ctx, "Snapshot stream closed", map[string]interface{}{
					"account_id": w.projection.AccountID(),
				})
				return
			}
			w.projection.ApplyRemoteSnapshot(snap)
		}
	}
}
