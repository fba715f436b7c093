package ledger

import (
	"context"
	"time"
)

// PendingMessage 送信待ちの永続化済みメッセージ
type PendingMessage struct {
	ID         int64
	Topic      string
	MessageKey string
	Payload    string
	CreatedAt  time.Time
}

// OutboxRepository 送信待ちメッセージリポジトリインターフェース
// メッセージの書き込みはStore.Applyのバッチ経由でのみ行われる。
// リレーが読み出して送信後にMarkPublishedで確定する（at-least-once）。
type OutboxRepository interface {
	// FetchPending 未送信メッセージを古い順に取得
	FetchPending(ctx context.Context, limit int) ([]PendingMessage, error)

	// MarkPublished 送信済みとしてマークする
	MarkPublished(ctx context.Context, ids []int64) error
}
