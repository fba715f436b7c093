package store

import (
	"context"
)

// ItemRepository ストアカタログリポジトリインターフェース
type ItemRepository interface {
	// FindByID アイテムIDでアイテムを取得
	FindByID(ctx context.Context, itemID string) (*Item, error)
}
