package agency

import (
	"context"
)

// AgencyRepository エージェンシーリポジトリインターフェース
// totalProductionの加算はStore.Applyのバッチ経由でのみ行われる。
type AgencyRepository interface {
	// FindByID エージェンシーIDでエージェンシーを取得
	FindByID(ctx context.Context, agencyID string) (*Agency, error)

	// Create 新しいエージェンシーを作成
	Create(ctx context.Context, agency *Agency) error
}
