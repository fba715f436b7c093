package ledger

import (
	"context"
	"database/sql"
)

// Store アカウントストアポート
// バッチ全体を不可分に適用する。部分適用は構造上起こらない。
// 冪等性キーが既に適用済みの場合はErrDuplicateEntryを返し、何も適用しない。
type Store interface {
	// Apply バッチをアトミックに適用
	Apply(ctx context.Context, batch *Batch) error
}

// TxStore 既存のトランザクションに相乗りしてバッチを適用するストアポート
// 注文作成のように、バッチ外のレコード書き込みと同一トランザクションで
// 残高を変更する必要がある場合に使用する。
type TxStore interface {
	Store

	// ApplyTx トランザクション内でバッチを適用
	ApplyTx(ctx context.Context, tx *sql.Tx, batch *Batch) error
}

// TransactionManager トランザクション管理インターフェース
type TransactionManager interface {
	// WithTransaction トランザクション内で関数を実行
	WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}
