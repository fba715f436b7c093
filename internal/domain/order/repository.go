package order

import (
	"context"
	"database/sql"
)

// OrderRepository 注文リポジトリインターフェース
type OrderRepository interface {
	// Create 新しい注文を保存
	Create(ctx context.Context, order *Order) error

	// CreateTx 新しい注文をトランザクション内で保存
	// 商品注文の作成時デビットと同一トランザクションにするために使用する。
	CreateTx(ctx context.Context, tx *sql.Tx, order *Order) error

	// FindByID 注文IDで注文を取得
	FindByID(ctx context.Context, orderID string) (*Order, error)

	// FindByAccountID 依頼者のアカウントIDで注文一覧を取得（新しい順、ページネーション対応）
	FindByAccountID(ctx context.Context, accountID string, limit, offset int) ([]*Order, error)

	// FindByStatus ステータスで注文一覧を取得（管理画面用、新しい順）
	FindByStatus(ctx context.Context, status Status, limit, offset int) ([]*Order, error)

	// Transition pending状態からの条件付き遷移をトランザクション内で実行
	// 対象がpendingでなければErrOrderAlreadyTerminal。
	Transition(ctx context.Context, tx *sql.Tx, orderID string, status Status, note string) error
}
