package ledger

import (
	"context"
)

// EntryRepository 台帳エントリリポジトリインターフェース（読み取り専用）
// エントリの書き込みはStore.Applyのバッチ経由でのみ行われる。
type EntryRepository interface {
	// FindByEntryID エントリIDでエントリを取得
	FindByEntryID(ctx context.Context, entryID string) (*Entry, error)

	// FindByAccountID アカウントIDでエントリ一覧を取得（新しい順、ページネーション対応）
	FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*Entry, error)
}
