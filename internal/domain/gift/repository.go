package gift

import (
	"context"
)

// GiftRepository ギフトカタログリポジトリインターフェース
type GiftRepository interface {
	// FindByID ギフトIDでギフトを取得
	FindByID(ctx context.Context, giftID string) (*Gift, error)
}

// EventRepository ギフトイベントリポジトリインターフェース（読み取り専用）
// イベントの書き込みはStore.Applyのバッチ経由でのみ行われる。
type EventRepository interface {
	// FindByAccountID 送信者または受信者として関わったイベント一覧を取得（新しい順）
	FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*Event, error)
}
