package account

import (
	"context"
)

// AccountRepository アカウントリポジトリインターフェース
type AccountRepository interface {
	// FindByID アカウントIDでアカウントを取得
	FindByID(ctx context.Context, accountID string) (*Account, error)

	// Create 新しいアカウントを作成（残高はすべてゼロ）
	Create(ctx context.Context, account *Account) error

	// UpdateRoles ロール集合を更新
	UpdateRoles(ctx context.Context, accountID string, roles RoleSet) error

	// UpdateCustomRate 商品個別のコイン換算レートを設定
	UpdateCustomRate(ctx context.Context, accountID, productID string, rate int64) error
}
