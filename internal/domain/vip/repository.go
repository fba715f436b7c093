package vip

import (
	"context"
)

// TierRepository VIPティアリポジトリインターフェース
type TierRepository interface {
	// FindByID ティアIDでティアを取得
	FindByID(ctx context.Context, tierID string) (*Tier, error)
}
